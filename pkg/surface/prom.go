package surface

import (
	"io"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/forkscope/forkscope/pkg/scoring"
)

// MetricName is the gauge family written by PromRenderer.
const MetricName = "forkscope_feature_score"

// PromRenderer writes scores in the Prometheus text exposition format, one
// gauge per feature, so results can be dropped into a node_exporter textfile
// directory or pushed to a gateway.
type PromRenderer struct{}

func (r *PromRenderer) Render(w io.Writer, result *scoring.Result) error {
	_, err := expfmt.MetricFamilyToText(w, MetricFamily(result))
	return err
}

// MetricFamily converts a Result into a gauge family.
func MetricFamily(result *scoring.Result) *dto.MetricFamily {
	policy := result.Policy.String()
	mf := &dto.MetricFamily{
		Name: ptr(MetricName),
		Help: ptr("Fork correlation score per feature."),
		Type: dto.MetricType_GAUGE.Enum(),
	}
	for _, f := range result.Features {
		mf.Metric = append(mf.Metric, &dto.Metric{
			Label: []*dto.LabelPair{
				{Name: ptr("feature"), Value: ptr(f.Feature)},
				{Name: ptr("policy"), Value: ptr(policy)},
			},
			Gauge: &dto.Gauge{Value: ptr(float64(f.Score))},
		})
	}
	return mf
}

func ptr[T any](v T) *T { return &v }
