package statistics

import (
	"distlab/domain/distribution"
)

const (
	TestNormality         = "dagostino_pearson"
	TestKolmogorovSmirnov = "kolmogorov_smirnov"
)

// GoodnessOfFit is the outcome of the family-specific test, if any
type GoodnessOfFit struct {
	Applicable bool                `json:"applicable" yaml:"applicable"`
	Test       string              `json:"test,omitempty" yaml:"test,omitempty"`
	Statistic  distribution.Moment `json:"statistic" yaml:"statistic"`
	PValue     distribution.Moment `json:"p_value" yaml:"p_value"`
	Note       string              `json:"note,omitempty" yaml:"note,omitempty"`
}

func notApplicable() GoodnessOfFit {
	return GoodnessOfFit{
		Statistic: distribution.Undefined(),
		PValue:    distribution.Undefined(),
	}
}

// fit runs the normality test for normal samples and a Kolmogorov-Smirnov
// test against the standard uniform U(0,1) for uniform samples, whatever
// the sample's own bounds.
func fit(sample []float64, id distribution.ID) GoodnessOfFit {
	switch id {
	case distribution.Normal:
		k2, p, err := NormalityTest(sample)
		if err != nil {
			g := notApplicable()
			g.Test = TestNormality
			g.Note = err.Error()
			return g
		}
		return GoodnessOfFit{
			Applicable: true,
			Test:       TestNormality,
			Statistic:  distribution.Defined(k2),
			PValue:     distribution.Defined(p),
		}
	case distribution.Uniform:
		d, p := KolmogorovSmirnovUniform(sample)
		return GoodnessOfFit{
			Applicable: true,
			Test:       TestKolmogorovSmirnov,
			Statistic:  distribution.Defined(d),
			PValue:     distribution.Defined(p),
			Note:       "tested against the standard uniform on [0, 1]",
		}
	default:
		return notApplicable()
	}
}
