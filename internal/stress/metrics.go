/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package stress

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	ops      *prometheus.CounterVec
	retries  *prometheus.CounterVec
	lost     *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	labels := []string{"scenario", "width"}
	m := &metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hwatomic",
			Subsystem: "stress",
			Name:      "operations_total",
			Help:      "Atomic operations issued by stress workers.",
		}, labels),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hwatomic",
			Subsystem: "stress",
			Name:      "cas_retries_total",
			Help:      "Compare-and-swap attempts that observed a concurrent change.",
		}, labels),
		lost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hwatomic",
			Subsystem: "stress",
			Name:      "lost_updates",
			Help:      "1 when the last run of a scenario ended on the wrong value.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hwatomic",
			Subsystem: "stress",
			Name:      "run_seconds",
			Help:      "Wall time of one scenario run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, labels),
	}
	for _, c := range []prometheus.Collector{m.ops, m.retries, m.lost, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) observe(res Result) {
	m.ops.WithLabelValues(res.Scenario, res.Width).Add(float64(res.Ops))
	m.retries.WithLabelValues(res.Scenario, res.Width).Add(float64(res.Retries))
	m.duration.WithLabelValues(res.Scenario, res.Width).Observe(res.Duration.Seconds())
	lost := 0.0
	if !res.OK {
		lost = 1
	}
	m.lost.WithLabelValues(res.Scenario, res.Width).Set(lost)
}
