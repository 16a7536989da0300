package source

import "fmt"

// Location represents a span of source code with start and end positions
type Location struct {
	Filename string
	Start    Position
	End      Position
}

// NewLocation creates a new Location with the given start and end positions
func NewLocation(filename string, start, end Position) Location {
	return Location{
		Filename: filename,
		Start:    start,
		End:      end,
	}
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Start.Line, l.Start.Column)
}
