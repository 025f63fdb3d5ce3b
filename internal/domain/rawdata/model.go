package rawdata

// Payload is one raw per-game document from the source store. Body is the
// decoded JSON tree; numbers are kept as json.Number.
type Payload struct {
	EventID string
	Body    any
	Size    int
}
