package mathlang

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

// parsectx holds general data for parsing.
type parsectx struct {
	// max is the maximum source length in bytes. Zero or less means no
	// limit.
	max int
}

type maxlenopt int

func (o maxlenopt) parseOption(p parsectx) parsectx {
	p.max = int(o)
	return p
}

// MaxLength rejects source longer than n bytes before tokenizing it. n <= 0
// means no limit, which is the default.
func MaxLength(n int) ParseOption {
	return maxlenopt(n)
}
