package sweep_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/snowball/internal/climate"
	"github.com/san-kum/snowball/internal/solver"
	"github.com/san-kum/snowball/internal/sweep"
)

var _ = Describe("Sweep", func() {
	var (
		model *climate.Model
		cfg   sweep.Config
	)

	BeforeEach(func() {
		model = climate.NewDefault()
		cfg = sweep.DefaultConfig()
	})

	It("produces one ordered point per multiplier", func() {
		points, err := sweep.Run(context.Background(), model, nil, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(len(cfg.Multipliers)))

		for i, pt := range points {
			Expect(pt.Multiplier).To(Equal(cfg.Multipliers[i]))
			Expect(pt.Valid).To(BeTrue())
		}
	})

	It("is monotonically non-decreasing in temperature", func() {
		points, err := sweep.Run(context.Background(), model, nil, cfg)
		Expect(err).NotTo(HaveOccurred())

		for i := 1; i < len(points); i++ {
			Expect(points[i].Temperature).To(BeNumerically(">=", points[i-1].Temperature-1e-9),
				"temperature dropped between multipliers %f and %f",
				points[i-1].Multiplier, points[i].Multiplier)
		}
	})

	It("finds a Snowball threshold inside the default range", func() {
		points, err := sweep.Run(context.Background(), model, nil, cfg)
		Expect(err).NotTo(HaveOccurred())

		tFreeze := model.Params().TFreeze
		critical, ok := sweep.CriticalMultiplier(points, tFreeze)
		Expect(ok).To(BeTrue(), "no frozen equilibrium in the default range")
		Expect(critical).To(BeNumerically(">=", sweep.DefaultMinMultiplier))
		Expect(critical).To(BeNumerically("<", 1.0), "present-day input must not be frozen")

		// Present-day input keeps the warm branch above freezing.
		last := points[len(points)-1]
		Expect(last.Temperature).To(BeNumerically(">", tFreeze))
	})

	It("keeps the warm branch above freezing near present-day input", func() {
		points, err := sweep.Run(context.Background(), model, nil, cfg)
		Expect(err).NotTo(HaveOccurred())

		for _, pt := range points {
			if pt.Multiplier >= 1.0 {
				Expect(pt.Branch).To(Equal("warm"))
				Expect(pt.Temperature).To(BeNumerically(">", model.Params().TFreeze))
			}
		}
	})

	It("honors the branch policy", func() {
		cfg.Multipliers = []float64{1.0}

		warmFirst, err := sweep.Run(context.Background(), model, nil, cfg)
		Expect(err).NotTo(HaveOccurred())

		cfg.Policy = sweep.PreferCold
		coldFirst, err := sweep.Run(context.Background(), model, nil, cfg)
		Expect(err).NotTo(HaveOccurred())

		// Present-day input is bistable, so the two policies choose
		// different equilibria from identical solver runs.
		Expect(warmFirst[0].Branch).To(Equal("warm"))
		Expect(coldFirst[0].Branch).To(Equal("cold"))
		Expect(warmFirst[0].Temperature).To(BeNumerically(">", coldFirst[0].Temperature+10))
	})

	It("marks points missing when neither seed converges", func() {
		starved := func() *solver.Solver {
			s := solver.New()
			s.MaxIterations = 1
			s.Tolerance = 1e-12
			return s
		}

		points, err := sweep.Run(context.Background(), model, starved, cfg)
		Expect(err).NotTo(HaveOccurred())

		for _, pt := range points {
			Expect(pt.Valid).To(BeFalse())
		}

		_, ok := sweep.CriticalMultiplier(points, model.Params().TFreeze)
		Expect(ok).To(BeFalse())
	})

	It("matches sequential results when run concurrently", func() {
		points, err := sweep.Run(context.Background(), model, nil, cfg)
		Expect(err).NotTo(HaveOccurred())

		s := solver.New()
		for _, pt := range points {
			warm, err := s.Solve(model, cfg.WarmSeed, pt.Multiplier)
			Expect(err).NotTo(HaveOccurred())
			Expect(pt.Warm).To(Equal(warm))
		}
	})

	It("rejects invalid configurations", func() {
		cfg.Multipliers = nil
		_, err := sweep.Run(context.Background(), model, nil, cfg)
		Expect(err).To(HaveOccurred())

		cfg.Multipliers = []float64{1.0, 0.9}
		_, err = sweep.Run(context.Background(), model, nil, cfg)
		Expect(err).To(HaveOccurred())

		cfg.Multipliers = []float64{-0.5, 1.0}
		_, err = sweep.Run(context.Background(), model, nil, cfg)
		Expect(err).To(HaveOccurred())
	})

	It("stops on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := sweep.Run(ctx, model, nil, cfg)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("stops when the context is cancelled mid-sweep", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Cancel from inside the first solve of each point, so the
		// check before the second solve must observe it.
		midRun := func() *solver.Solver {
			s := solver.New()
			s.AddObserver(cancelObserver{cancel})
			return s
		}

		_, err := sweep.Run(ctx, model, midRun, cfg)
		Expect(err).To(MatchError(context.Canceled))
	})
})

type cancelObserver struct{ cancel context.CancelFunc }

func (c cancelObserver) OnIteration(int, float64, float64) { c.cancel() }

var _ = Describe("Threshold", func() {
	It("brackets and refines the Snowball onset", func() {
		model := climate.NewDefault()
		cfg := sweep.DefaultConfig()

		points, err := sweep.Run(context.Background(), model, nil, cfg)
		Expect(err).NotTo(HaveOccurred())

		th, ok := sweep.FindThreshold(points, model.Params().TFreeze)
		Expect(ok).To(BeTrue())
		Expect(th.WarmAbove).To(BeNumerically(">", th.FrozenBelow))

		refined, err := sweep.RefineThreshold(model, solver.New(), th, cfg.WarmSeed, 12)
		Expect(err).NotTo(HaveOccurred())
		Expect(refined.WarmAbove - refined.FrozenBelow).To(BeNumerically("<", 1e-3))
		Expect(refined.FrozenBelow).To(BeNumerically(">=", th.FrozenBelow))
		Expect(refined.WarmAbove).To(BeNumerically("<=", th.WarmAbove))
	})

	It("rejects non-positive refinement budgets", func() {
		model := climate.NewDefault()
		_, err := sweep.RefineThreshold(model, solver.New(), sweep.Threshold{FrozenBelow: 0.9, WarmAbove: 1.0}, 288, 0)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("BranchPolicy", func() {
	It("parses config names", func() {
		p, err := sweep.ParsePolicy("prefer-cold")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(sweep.PreferCold))

		p, err = sweep.ParsePolicy("")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(sweep.PreferWarm))

		_, err = sweep.ParsePolicy("prefer-lukewarm")
		Expect(err).To(HaveOccurred())
	})
})
