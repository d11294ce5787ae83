package frames_test

import (
	"math"
	"testing"

	satellite "github.com/joshuaferrara/go-satellite"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/astrodyn/internal/coord"
	"github.com/san-kum/astrodyn/internal/frames"
)

func expectVec(got, want coord.Vec3, tol float64) {
	GinkgoHelper()
	for i := range got {
		Expect(got[i]).To(BeNumerically("~", want[i], tol), "component %d", i)
	}
}

var _ = Describe("Geodetic", func() {
	DescribeTable("GeodeticToECEF reference points",
		func(g coord.Geodetic, want coord.Vec3) {
			expectVec(frames.GeodeticToECEF(g).Vec3(), want, 1e-6)
		},
		Entry("equator, prime meridian", coord.Geodetic{}, coord.Vec3{frames.SemiMajorAxis, 0, 0}),
		Entry("equator, 90E", coord.Geodetic{LongitudeDeg: 90}, coord.Vec3{0, frames.SemiMajorAxis, 0}),
		Entry("north pole", coord.Geodetic{LatitudeDeg: 90}, coord.Vec3{0, 0, frames.SemiMinorAxis}),
		Entry("south pole, 1 km up", coord.Geodetic{LatitudeDeg: -90, AltitudeM: 1000}, coord.Vec3{0, 0, -frames.SemiMinorAxis - 1000}),
		Entry("equator, 400 km up", coord.Geodetic{AltitudeM: 400e3}, coord.Vec3{frames.SemiMajorAxis + 400e3, 0, 0}),
	)

	It("places the polar radius about 21.38 km inside the equatorial radius", func() {
		Expect(frames.SemiMajorAxis - frames.SemiMinorAxis).To(BeNumerically("~", 21384.6858, 1e-3))
	})

	DescribeTable("ECEFToGeodetic inverts GeodeticToECEF below a millimetre",
		func(g coord.Geodetic) {
			back := frames.ECEFToGeodetic(frames.GeodeticToECEF(g))
			r1 := frames.GeodeticToECEF(g).Vec3()
			r2 := frames.GeodeticToECEF(back).Vec3()
			Expect(r1.Sub(r2).Norm()).To(BeNumerically("<", 1e-3))
			Expect(back.AltitudeM).To(BeNumerically("~", g.AltitudeM, 1e-3))
			Expect(back.LatitudeDeg).To(BeNumerically("~", g.LatitudeDeg, 1e-9))
		},
		Entry("sea level equator", coord.Geodetic{}),
		Entry("mid latitude", coord.Geodetic{LatitudeDeg: 45, LongitudeDeg: 7.5, AltitudeM: 350}),
		Entry("southern hemisphere", coord.Geodetic{LatitudeDeg: -33.9, LongitudeDeg: 151.2, AltitudeM: 58}),
		Entry("low earth orbit", coord.Geodetic{LatitudeDeg: 51.6, LongitudeDeg: -120, AltitudeM: 420e3}),
		Entry("geostationary", coord.Geodetic{LatitudeDeg: 0.01, LongitudeDeg: -75, AltitudeM: 35786e3}),
		Entry("near pole", coord.Geodetic{LatitudeDeg: 89.999, LongitudeDeg: 10, AltitudeM: 2000}),
		Entry("below the ellipsoid", coord.Geodetic{LatitudeDeg: 31.5, LongitudeDeg: 35.5, AltitudeM: -430}),
	)

	It("recovers the pole exactly", func() {
		g := frames.ECEFToGeodetic(coord.ECEF{Z: frames.SemiMinorAxis + 500})
		Expect(g.LatitudeDeg).To(BeNumerically("~", 90, 1e-9))
		Expect(g.AltitudeM).To(BeNumerically("~", 500, 1e-3))
	})

	DescribeTable("GeocentricRadius",
		func(lat, want float64) {
			Expect(frames.GeocentricRadius(lat)).To(BeNumerically("~", want, 1e-3))
		},
		Entry("equator", 0.0, frames.SemiMajorAxis),
		Entry("north pole", 90.0, frames.SemiMinorAxis),
		Entry("south pole", -90.0, frames.SemiMinorAxis),
	)

	It("agrees with the norm of the surface point at every latitude", func() {
		for lat := -90.0; lat <= 90; lat += 7.5 {
			r := frames.GeodeticToECEF(coord.Geodetic{LatitudeDeg: lat, LongitudeDeg: 33}).Norm()
			Expect(frames.GeocentricRadius(lat)).To(BeNumerically("~", r, 1e-6), "lat %v", lat)
		}
	})
})

var _ = Describe("Earth rotation", func() {
	sample := coord.ECEF{X: 4.2e6, Y: -2.7e6, Z: 3.9e6}

	It("is the identity at t = 0", func() {
		Expect(frames.ECEFToECI(sample, 0).Vec3()).To(Equal(sample.Vec3()))
	})

	It("completes one revolution in 86400 s", func() {
		expectVec(frames.ECEFToECI(sample, 86400).Vec3(), sample.Vec3(), 1e-6)
	})

	It("rotates the x axis onto -y after a quarter day", func() {
		got := frames.ECEFToECI(coord.ECEF{X: 1}, 21600)
		expectVec(got.Vec3(), coord.Vec3{0, -1, 0}, 1e-12)
	})

	It("follows the stated rotation formula", func() {
		t := 1234.5
		th := frames.EarthRate * t
		got := frames.ECEFToECI(sample, t)
		want := coord.Vec3{
			math.Cos(th)*sample.X + math.Sin(th)*sample.Y,
			-math.Sin(th)*sample.X + math.Cos(th)*sample.Y,
			sample.Z,
		}
		expectVec(got.Vec3(), want, 1e-6)
	})

	It("matches the go-satellite R3 rotation", func() {
		for _, t := range []float64{0, 100, 5000, 43200, 90000} {
			ref := satellite.ECIToECEF(satellite.Vector3{X: sample.X, Y: sample.Y, Z: sample.Z}, frames.EarthRate*t)
			expectVec(frames.ECEFToECI(sample, t).Vec3(), coord.Vec3{ref.X, ref.Y, ref.Z}, 1e-6)
		}
	})

	It("preserves length", func() {
		Expect(frames.ECEFToECI(sample, 777).Norm()).To(BeNumerically("~", sample.Norm(), 1e-6))
	})

	It("inverts position exactly", func() {
		for _, t := range []float64{-3600, 0, 17.25, 43200, 1e6} {
			back := frames.ECIToECEF(frames.ECEFToECI(sample, t), t)
			expectVec(back.Vec3(), sample.Vec3(), 1e-6)
		}
	})

	It("builds orthonormal R3 matrices", func() {
		r := frames.R3(0.83)
		var prod mat.Dense
		prod.Mul(r, r.T())
		Expect(mat.EqualApprox(&prod, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-12)).To(BeTrue())
		Expect(mat.Det(r)).To(BeNumerically("~", 1, 1e-12))
	})

	It("agrees with the R3 and R3Dot matrices", func() {
		for _, t := range []float64{-900, 0, 3333.3, 50000} {
			th := frames.RotationAngle(t)
			st := coord.ECEFState{R: sample, V: coord.ECEF{X: 15, Y: -7300, Z: 40}}

			var r, v, transport mat.VecDense
			r.MulVec(frames.R3(th), mat.NewVecDense(3, []float64{st.R.X, st.R.Y, st.R.Z}))
			v.MulVec(frames.R3(th), mat.NewVecDense(3, []float64{st.V.X, st.V.Y, st.V.Z}))
			transport.MulVec(frames.R3Dot(th, frames.EarthRate), mat.NewVecDense(3, []float64{st.R.X, st.R.Y, st.R.Z}))
			v.AddVec(&v, &transport)

			got := frames.ECEFToECIWithVelocity(st, t)
			expectVec(got.R.Vec3(), coord.Vec3{r.AtVec(0), r.AtVec(1), r.AtVec(2)}, 1e-6)
			expectVec(got.V.Vec3(), coord.Vec3{v.AtVec(0), v.AtVec(1), v.AtVec(2)}, 1e-9)
			expectVec(frames.ECEFToECI(sample, t).Vec3(), got.R.Vec3(), 0)
		}
	})

	It("rotates without allocating", func() {
		st := coord.ECEFState{R: sample, V: coord.ECEF{Y: 7000}}
		allocs := testing.AllocsPerRun(100, func() {
			eci := frames.ECEFToECIWithVelocity(st, 1800)
			_ = frames.ECIToECEFWithVelocity(eci, 1800)
			_ = frames.ECIToECEF(frames.ECEFToECI(sample, 1800), 1800)
		})
		Expect(allocs).To(BeZero())
	})

	Describe("with velocity", func() {
		state := coord.ECEFState{
			R: coord.ECEF{X: 6.8e6, Y: 1.1e6, Z: -0.4e6},
			V: coord.ECEF{X: -120, Y: 7300, Z: 900},
		}

		It("adds the transport velocity for a body at rest on the ground", func() {
			s := frames.ECEFToECIWithVelocity(coord.ECEFState{R: coord.ECEF{X: frames.SemiMajorAxis}}, 0)
			expectVec(s.V.Vec3(), coord.Vec3{0, -frames.EarthRate * frames.SemiMajorAxis, 0}, 1e-9)
		})

		It("follows the stated velocity formula", func() {
			t := 4321.0
			th := frames.EarthRate * t
			w := frames.EarthRate
			s, c := math.Sincos(th)
			r, v := state.R, state.V
			want := coord.Vec3{
				c*v.X + s*v.Y + w*(-s*r.X+c*r.Y),
				-s*v.X + c*v.Y + w*(-c*r.X-s*r.Y),
				v.Z,
			}
			expectVec(frames.ECEFToECIWithVelocity(state, t).V.Vec3(), want, 1e-9)
		})

		It("matches the time derivative of the rotated position", func() {
			// A point fixed in ECEF: its inertial velocity is d/dt of ECEFToECI.
			t, h := 5000.0, 0.5
			rest := coord.ECEFState{R: state.R}
			fd := frames.ECEFToECI(state.R, t+h).Vec3().Sub(frames.ECEFToECI(state.R, t-h).Vec3()).Scale(1 / (2 * h))
			expectVec(frames.ECEFToECIWithVelocity(rest, t).V.Vec3(), fd, 1e-6)
		})

		It("inverts position and velocity", func() {
			for _, t := range []float64{0, 60, 86399, 2e5} {
				back := frames.ECIToECEFWithVelocity(frames.ECEFToECIWithVelocity(state, t), t)
				expectVec(back.R.Vec3(), state.R.Vec3(), 1e-6)
				expectVec(back.V.Vec3(), state.V.Vec3(), 1e-9)
			}
		})
	})
})
