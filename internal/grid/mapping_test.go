package grid

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MapToTarget", func() {
	DescribeTable("column boundaries",
		func(col, wantID int, wantOK bool) {
			id, ok := MapToTarget(0, col)
			Expect(ok).To(Equal(wantOK))
			if wantOK {
				Expect(id).To(Equal(wantID))
			}
		},
		Entry("negative column", -1, 0, false),
		Entry("first generator column", 0, 0, false),
		Entry("last generator column", GeneratorCols-1, 0, false),
		Entry("first channel column", 80, 1000, true),
		Entry("interior channel column", 100, 1020, true),
		Entry("last channel column", 159, 1079, true),
		Entry("first spacer after channel", 160, 0, false),
		Entry("last spacer before fx", 163, 0, false),
		Entry("first fx column", 164, 1080, true),
		Entry("interior fx column", 184, 1100, true),
		Entry("last fx column", 203, 1119, true),
		Entry("first spacer after fx", 204, 0, false),
		Entry("last spacer before master", 207, 0, false),
		Entry("first master column", 208, 1120, true),
		Entry("interior master column", 224, 1136, true),
		Entry("last master column", 239, 1151, true),
		Entry("just past the grid", 240, 0, false),
		Entry("far past the grid", 1000, 0, false),
	)

	It("never lets the row affect the result", func() {
		for _, col := range []int{79, 80, 159, 160, 164, 203, 208, 239, 240} {
			wantID, wantOK := MapToTarget(0, col)
			for row := -2; row <= Rows+2; row++ {
				id, ok := MapToTarget(row, col)
				Expect(ok).To(Equal(wantOK), "col %d row %d", col, row)
				Expect(id).To(Equal(wantID), "col %d row %d", col, row)
			}
		}
	})

	It("covers the identifier space exactly once", func() {
		seen := map[int]bool{}
		for col := 0; col < Cols; col++ {
			id, ok := MapToTarget(0, col)
			if !ok {
				continue
			}
			Expect(IsValidTarget(id)).To(BeTrue(), "col %d -> id %d", col, id)
			Expect(seen[id]).To(BeFalse(), "id %d produced twice", id)
			seen[id] = true
		}
		Expect(seen).To(HaveLen(TargetCount))
	})
})

var _ = Describe("IsValidTarget", func() {
	DescribeTable("bounds",
		func(id int, want bool) {
			Expect(IsValidTarget(id)).To(Equal(want))
		},
		Entry("below the space", FirstTarget-1, false),
		Entry("first id", FirstTarget, true),
		Entry("last id", FirstTarget+TargetCount-1, true),
		Entry("past the space", FirstTarget+TargetCount, false),
		Entry("zero", 0, false),
		Entry("negative", -5, false),
	)
})

var _ = Describe("ZoneOf", func() {
	It("matches the published spans", func() {
		for _, z := range Zones {
			start, end := Span(z)
			Expect(end).To(BeNumerically(">", start))
			Expect(ZoneOf(start)).To(Equal(z))
			Expect(ZoneOf(end - 1)).To(Equal(z))
		}
	})

	DescribeTable("spacers and out-of-range columns own no zone",
		func(col int) {
			Expect(ZoneOf(col)).To(Equal(ZoneNone))
		},
		Entry("spacer 160", 160),
		Entry("spacer 163", 163),
		Entry("spacer 204", 204),
		Entry("spacer 207", 207),
		Entry("past the grid", Cols),
		Entry("negative", -1),
	)
})

var _ = Describe("MapToVoice", func() {
	DescribeTable("slot layout",
		func(col, wantSlot int, wantParam VoiceParam, wantOK bool) {
			k, ok := MapToVoice(col)
			Expect(ok).To(Equal(wantOK))
			if wantOK {
				Expect(k.Slot).To(Equal(wantSlot))
				Expect(k.Param).To(Equal(wantParam))
			}
		},
		Entry("slot 0 pitch low", 0, 0, ParamPitch, true),
		Entry("slot 0 pitch high", 1, 0, ParamPitch, true),
		Entry("slot 0 filter low", 2, 0, ParamFilter, true),
		Entry("slot 0 filter high", 3, 0, ParamFilter, true),
		Entry("slot 0 amp low", 4, 0, ParamAmp, true),
		Entry("slot 0 amp high", 5, 0, ParamAmp, true),
		Entry("slot 0 pan", 6, 0, ParamPan, true),
		Entry("slot 0 fx", 7, 0, ParamFX, true),
		Entry("slot 0 gap", 8, 0, paramNone, false),
		Entry("slot 0 gap tail", 9, 0, paramNone, false),
		Entry("slot 1 pitch", 10, 1, ParamPitch, true),
		Entry("slot 7 fx", 77, 7, ParamFX, true),
		Entry("slot 7 gap", 79, 0, paramNone, false),
		Entry("channel zone", 80, 0, paramNone, false),
		Entry("negative", -1, 0, paramNone, false),
	)

	It("orders keys by slot then parameter", func() {
		a := VoiceKey{Slot: 0, Param: ParamFX}
		b := VoiceKey{Slot: 1, Param: ParamPitch}
		c := VoiceKey{Slot: 1, Param: ParamAmp}
		Expect(a.Less(b)).To(BeTrue())
		Expect(b.Less(a)).To(BeFalse())
		Expect(b.Less(c)).To(BeTrue())
	})
})
