package hal

// Peripheral is a board component that has to push its configuration to
// hardware once before it is used.
type Peripheral interface {
	Init() error
}
