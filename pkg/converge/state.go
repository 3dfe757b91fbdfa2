package converge

//go:generate go run github.com/dmarkham/enumer -type State -trimprefix State -transform lower -output state.gen.go

// State tracks one object through a convergence pass.
//
// Every object starts Unknown. The existence check moves it to Checked; a
// present object verifies immediately, an absent one passes through
// Creating and Created before the postcondition check settles it at
// Verified or Failed.
type State int

const (
	StateUnknown State = iota
	StateChecked
	StateCreating
	StateCreated
	StateVerified
	StateFailed
)
