package atmosphere_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/astrodyn/internal/atmosphere"
)

var _ = Describe("US1976", func() {
	Describe("sea level", func() {
		It("matches the standard day", func() {
			Expect(atmosphere.Temperature(0)).To(Equal(288.15))
			Expect(atmosphere.Pressure(0)).To(Equal(101325.0))
			Expect(atmosphere.Density(0)).To(BeNumerically("~", 1.225, 1e-3))
		})
	})

	Describe("layer table", func() {
		It("partitions [Floor, Ceiling] contiguously", func() {
			ls := atmosphere.Layers()
			Expect(ls).To(HaveLen(6))
			Expect(ls[0].AltitudeMin).To(Equal(atmosphere.Floor))
			Expect(ls[len(ls)-1].AltitudeMax).To(Equal(atmosphere.Ceiling))
			for i := 0; i+1 < len(ls); i++ {
				Expect(ls[i].AltitudeMax).To(Equal(ls[i+1].AltitudeMin), "gap after %s", ls[i].Name)
			}
		})

		It("returns a copy", func() {
			ls := atmosphere.Layers()
			ls[0].TemperatureBase = 0
			Expect(atmosphere.Temperature(0)).To(Equal(288.15))
		})

		It("resolves shared boundaries to the lower layer", func() {
			l, ok := atmosphere.LayerAt(11000)
			Expect(ok).To(BeTrue())
			Expect(l.Name).To(Equal("troposphere"))
		})
	})

	DescribeTable("continuity at internal boundaries",
		func(boundary float64) {
			below := atmosphere.Temperature(math.Nextafter(boundary, 0))
			l, ok := atmosphere.LayerAt(math.Nextafter(boundary, math.Inf(1)))
			Expect(ok).To(BeTrue())

			Expect(atmosphere.Temperature(boundary)).To(BeNumerically("~", l.TemperatureBase, 1e-9))
			Expect(below).To(BeNumerically("~", l.TemperatureBase, 1e-9))

			p := atmosphere.Pressure(boundary)
			Expect(math.Abs(p-l.PressureBase) / l.PressureBase).To(BeNumerically("<", 1e-4))
		},
		Entry("tropopause", 11000.0),
		Entry("stratosphere", 20000.0),
		Entry("upper stratosphere", 32000.0),
		Entry("stratopause", 47000.0),
		Entry("mesosphere", 51000.0),
	)

	DescribeTable("reference values",
		func(h, temperature, pressure float64) {
			Expect(atmosphere.Temperature(h)).To(BeNumerically("~", temperature, 1e-6))
			Expect(atmosphere.Pressure(h)).To(BeNumerically("~", pressure, pressure*1e-4))
		},
		Entry("5 km", 5000.0, 255.65, 54019.55),
		Entry("isothermal 15 km", 15000.0, 216.65, 12044.49),
		Entry("71 km", 71000.0, 214.65, 3.9563),
	)

	It("decreases pressure and density monotonically with altitude", func() {
		prevP, prevRho := math.Inf(1), math.Inf(1)
		for h := 0.0; h <= atmosphere.Ceiling; h += 500 {
			p, rho := atmosphere.Pressure(h), atmosphere.Density(h)
			Expect(p).To(BeNumerically("<", prevP))
			Expect(rho).To(BeNumerically("<", prevRho))
			prevP, prevRho = p, rho
		}
	})

	DescribeTable("out of range altitudes yield NaN",
		func(h float64) {
			Expect(math.IsNaN(atmosphere.Temperature(h))).To(BeTrue())
			Expect(math.IsNaN(atmosphere.Pressure(h))).To(BeTrue())
			Expect(math.IsNaN(atmosphere.Density(h))).To(BeTrue())
			Expect(atmosphere.InRange(h)).To(BeFalse())
		},
		Entry("below ground", -1.0),
		Entry("above ceiling", 71000.5),
		Entry("NaN input", math.NaN()),
	)

	It("is pure", func() {
		for _, h := range []float64{0, 1234.5, 33333, 70999} {
			a, b := atmosphere.Sample(h), atmosphere.Sample(h)
			Expect(math.Float64bits(a.Density)).To(Equal(math.Float64bits(b.Density)))
			Expect(math.Float64bits(a.Pressure)).To(Equal(math.Float64bits(b.Pressure)))
		}
	})
})
