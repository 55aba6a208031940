// Package expression defines the emotion and system-icon identifiers the
// companion can ask a renderer to display, plus the fixed symbolic-name
// tables used to translate agent-provided tags into them.
package expression

// Emotion identifies an emotion animation.
type Emotion string

const (
	EmotionNone      Emotion = ""
	EmotionAngry     Emotion = "angry"
	EmotionFastBlink Emotion = "fast_blink"
	EmotionSlowBlink Emotion = "slow_blink"
	EmotionHappy     Emotion = "happy"
	EmotionSad       Emotion = "sad"
	EmotionSleep     Emotion = "sleep"
)

// Icon identifies a system status icon.
type Icon string

const (
	IconNone             Icon = ""
	IconBrightnessDown   Icon = "brightness_down"
	IconBrightnessUp     Icon = "brightness_up"
	IconConfused         Icon = "confused"
	IconSleep            Icon = "sleep"
	IconThinking         Icon = "thinking"
	IconServerConnected  Icon = "server_connected"
	IconServerConnecting Icon = "server_connecting"
	IconVolumeDown       Icon = "volume_down"
	IconVolumeMute       Icon = "volume_mute"
	IconVolumeUp         Icon = "volume_up"
	IconWifiDisconnected Icon = "wifi_disconnected"
)

// Mapping pairs the emotion animation and the optional icon a symbolic tag
// translates to.
type Mapping struct {
	Emotion Emotion
	Icon    Icon
}

// emotionTags is the fixed table translating agent emotion tags. Unknown
// tags are not an error; callers ignore them with a warning.
var emotionTags = map[string]Mapping{
	"neutral":     {Emotion: EmotionSlowBlink},
	"happy":       {Emotion: EmotionHappy},
	"laughing":    {Emotion: EmotionHappy},
	"funny":       {Emotion: EmotionHappy},
	"sad":         {Emotion: EmotionSad},
	"angry":       {Emotion: EmotionAngry},
	"crying":      {Emotion: EmotionSad},
	"loving":      {Emotion: EmotionHappy},
	"embarrassed": {Emotion: EmotionFastBlink, Icon: IconThinking},
	"surprised":   {Emotion: EmotionFastBlink},
	"shocked":     {Emotion: EmotionFastBlink},
	"thinking":    {Emotion: EmotionFastBlink, Icon: IconThinking},
	"relaxed":     {Emotion: EmotionHappy},
	"delicious":   {Emotion: EmotionHappy},
	"kissy":       {Emotion: EmotionHappy},
	"confident":   {Emotion: EmotionHappy},
	"sleepy":      {Emotion: EmotionSleep, Icon: IconSleep},
	"silly":       {Emotion: EmotionFastBlink},
	"confused":    {Emotion: EmotionFastBlink, Icon: IconConfused},
	"curious":     {Emotion: EmotionFastBlink, Icon: IconConfused},
}

// systemIconNames is the fixed table translating system icon names.
var systemIconNames = map[string]Icon{
	"brightness_down":   IconBrightnessDown,
	"brightness_up":     IconBrightnessUp,
	"server_connected":  IconServerConnected,
	"server_connecting": IconServerConnecting,
	"volume_down":       IconVolumeDown,
	"volume_mute":       IconVolumeMute,
	"volume_up":         IconVolumeUp,
	"wifi_disconnected": IconWifiDisconnected,
}

// LookupEmotionTag translates an agent emotion tag.
func LookupEmotionTag(tag string) (Mapping, bool) {
	mapping, ok := emotionTags[tag]
	return mapping, ok
}

// LookupSystemIcon translates a system icon name.
func LookupSystemIcon(name string) (Icon, bool) {
	icon, ok := systemIconNames[name]
	return icon, ok
}
