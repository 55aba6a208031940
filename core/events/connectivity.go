package events

const (
	// KindConnectivityChanged identifies edge transitions of the connectivity flag.
	KindConnectivityChanged Kind = "connectivity.changed"
)

// ConnectivityChanged marks an edge transition of the connectivity flag.
type ConnectivityChanged struct {
	Base
	Connected bool
}

// NewConnectivityChanged creates a connectivity changed event.
func NewConnectivityChanged(connected bool) ConnectivityChanged {
	return ConnectivityChanged{Base: NewBase(KindConnectivityChanged), Connected: connected}
}
