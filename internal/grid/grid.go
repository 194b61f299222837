package grid

// Grid geometry and the column layout shared by the configuration record,
// the flocking kernel and the wire mapping. All three read these constants,
// so the zone spans and the target numbering cannot drift apart.
const (
	Rows = 8
	Cols = 240

	// Columns below GeneratorCols belong to the per-voice generator zone
	// and never map to a bus target.
	GeneratorCols = 80

	channelStart = 80
	channelEnd   = 160
	fxStart      = 164
	fxEnd        = 204
	masterStart  = 208
	masterEnd    = 240

	// Bus target identifiers form one contiguous space across the three
	// mapped zones. The numbering is a backend contract.
	FirstTarget = 1000
	channelBase = FirstTarget
	fxBase      = channelBase + (channelEnd - channelStart)
	masterBase  = fxBase + (fxEnd - fxStart)
	TargetCount = masterBase + (masterEnd - masterStart) - FirstTarget

	// MaxOffsets caps the number of (id, value) pairs in one offsets
	// message.
	MaxOffsets = 100
)

// Cell names one grid location.
type Cell struct {
	Row int
	Col int
}

// Contribution is one cell's current magnitude, produced once per tick and
// never persisted.
type Contribution struct {
	Row   int
	Col   int
	Value float64
}

// Zone identifies one independently toggleable column span.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneGenerator
	ZoneChannel
	ZoneFX
	ZoneMaster
)

func (z Zone) String() string {
	switch z {
	case ZoneGenerator:
		return "generator"
	case ZoneChannel:
		return "channel"
	case ZoneFX:
		return "fx"
	case ZoneMaster:
		return "master"
	default:
		return "none"
	}
}

// Zones lists the toggleable zones in column order.
var Zones = []Zone{ZoneGenerator, ZoneChannel, ZoneFX, ZoneMaster}

// ZoneOf returns the zone owning col, or ZoneNone for spacer and
// out-of-range columns.
func ZoneOf(col int) Zone {
	switch {
	case col < 0:
		return ZoneNone
	case col < GeneratorCols:
		return ZoneGenerator
	case col < channelEnd:
		return ZoneChannel
	case col >= fxStart && col < fxEnd:
		return ZoneFX
	case col >= masterStart && col < masterEnd:
		return ZoneMaster
	default:
		return ZoneNone
	}
}

// Span returns the half-open column range [start, end) of a zone.
func Span(z Zone) (start, end int) {
	switch z {
	case ZoneGenerator:
		return 0, GeneratorCols
	case ZoneChannel:
		return channelStart, channelEnd
	case ZoneFX:
		return fxStart, fxEnd
	case ZoneMaster:
		return masterStart, masterEnd
	default:
		return 0, 0
	}
}

// MapToTarget maps a cell to its bus target identifier. Generator, spacer
// and out-of-range columns have no target. The row is reserved and never
// affects the result.
func MapToTarget(row, col int) (int, bool) {
	_ = row
	switch {
	case col >= channelStart && col < channelEnd:
		return channelBase + (col - channelStart), true
	case col >= fxStart && col < fxEnd:
		return fxBase + (col - fxStart), true
	case col >= masterStart && col < masterEnd:
		return masterBase + (col - masterStart), true
	default:
		return 0, false
	}
}

// IsValidTarget reports whether id names an addressable bus target.
func IsValidTarget(id int) bool {
	return id >= FirstTarget && id < FirstTarget+TargetCount
}
