package obs

import "github.com/prometheus/client_golang/prometheus"

// SetBuildInfo registers build_info{version,commit} 1 on the registry.
func (m *Metrics) SetBuildInfo(version, commit string) {
	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "FreeArch API build information.",
		},
		[]string{"version", "commit"},
	)
	if err := m.registry.Register(buildInfo); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return
		}
		buildInfo = are.ExistingCollector.(*prometheus.GaugeVec)
	}
	buildInfo.WithLabelValues(version, commit).Set(1)
}
