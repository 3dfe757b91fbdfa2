package converge

//go:generate go run github.com/dmarkham/enumer -type Kind -trimprefix Kind -transform lower -output kind.gen.go

// Kind enumerates the server object types the engine can converge.
type Kind int

const (
	KindRole Kind = iota
	KindTablespace
	KindDatabase
)
