package grid

// VoiceParam names one modulatable parameter of a generator voice.
type VoiceParam int

const (
	ParamPitch VoiceParam = iota
	ParamFilter
	ParamAmp
	ParamPan
	ParamFX
	paramNone
)

func (p VoiceParam) String() string {
	switch p {
	case ParamPitch:
		return "pitch"
	case ParamFilter:
		return "filter"
	case ParamAmp:
		return "amp"
	case ParamPan:
		return "pan"
	case ParamFX:
		return "fx"
	default:
		return "none"
	}
}

// VoiceSlotCols columns form one voice slot; the generator zone holds
// VoiceSlots of them. Within a slot the columns are grouped into parameters
// in a fixed order, with two trailing gap columns that map to nothing.
const (
	VoiceSlotCols = 10
	VoiceSlots    = GeneratorCols / VoiceSlotCols
)

var voiceLayout = [VoiceSlotCols]VoiceParam{
	ParamPitch, ParamPitch,
	ParamFilter, ParamFilter,
	ParamAmp, ParamAmp,
	ParamPan,
	ParamFX,
	paramNone, paramNone,
}

// VoiceKey identifies one (slot, parameter) routing destination.
type VoiceKey struct {
	Slot  int
	Param VoiceParam
}

// Less orders keys by slot, then by parameter layout order.
func (k VoiceKey) Less(o VoiceKey) bool {
	if k.Slot != o.Slot {
		return k.Slot < o.Slot
	}
	return k.Param < o.Param
}

// MapToVoice maps a generator-zone column to its voice destination. Gap
// columns and columns outside the generator zone map to nothing.
func MapToVoice(col int) (VoiceKey, bool) {
	if col < 0 || col >= GeneratorCols {
		return VoiceKey{}, false
	}
	p := voiceLayout[col%VoiceSlotCols]
	if p == paramNone {
		return VoiceKey{}, false
	}
	return VoiceKey{Slot: col / VoiceSlotCols, Param: p}, true
}
