/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package stats

import "github.com/prometheus/client_golang/prometheus"

// collector adapts a Stats snapshot to the Prometheus exposition format for
// the /metrics built-in endpoint (spec.md §4.E step 4). A fresh Snapshot is
// taken on every Collect, so scrapes always reflect the current shared page.
type collector struct {
	s Stats

	totalRequests     *prometheus.Desc
	bytesSent         *prometheus.Desc
	status200         *prometheus.Desc
	status404         *prometheus.Desc
	status5xx         *prometheus.Desc
	activeConnections *prometheus.Desc
	responseTimeTotal *prometheus.Desc
	responseTimeCount *prometheus.Desc
}

// NewCollector wraps s as a prometheus.Collector for registration into a
// dedicated prometheus.Registry used only to render /metrics.
func NewCollector(s Stats) prometheus.Collector {
	ns := "staticd"
	return &collector{
		s:                 s,
		totalRequests:     prometheus.NewDesc(ns+"_requests_total", "Total HTTP requests handled.", nil, nil),
		bytesSent:         prometheus.NewDesc(ns+"_bytes_sent_total", "Total response bytes sent.", nil, nil),
		status200:         prometheus.NewDesc(ns+"_responses_200_total", "Total 200 OK responses.", nil, nil),
		status404:         prometheus.NewDesc(ns+"_responses_404_total", "Total 404 Not Found responses.", nil, nil),
		status5xx:         prometheus.NewDesc(ns+"_responses_5xx_total", "Total 5xx responses.", nil, nil),
		activeConnections: prometheus.NewDesc(ns+"_active_connections", "Current in-flight connections.", nil, nil),
		responseTimeTotal: prometheus.NewDesc(ns+"_response_time_milliseconds_total", "Cumulative response time.", nil, nil),
		responseTimeCount: prometheus.NewDesc(ns+"_response_time_samples_total", "Count of response-time samples.", nil, nil),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalRequests
	ch <- c.bytesSent
	ch <- c.status200
	ch <- c.status404
	ch <- c.status5xx
	ch <- c.activeConnections
	ch <- c.responseTimeTotal
	ch <- c.responseTimeCount
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.s.Snapshot()

	ch <- prometheus.MustNewConstMetric(c.totalRequests, prometheus.CounterValue, float64(snap.TotalRequests))
	ch <- prometheus.MustNewConstMetric(c.bytesSent, prometheus.CounterValue, float64(snap.BytesSent))
	ch <- prometheus.MustNewConstMetric(c.status200, prometheus.CounterValue, float64(snap.Status200))
	ch <- prometheus.MustNewConstMetric(c.status404, prometheus.CounterValue, float64(snap.Status404))
	ch <- prometheus.MustNewConstMetric(c.status5xx, prometheus.CounterValue, float64(snap.Status5xx))
	ch <- prometheus.MustNewConstMetric(c.activeConnections, prometheus.GaugeValue, float64(snap.ActiveConnections))
	ch <- prometheus.MustNewConstMetric(c.responseTimeTotal, prometheus.CounterValue, float64(snap.ResponseTimeTotalMS))
	ch <- prometheus.MustNewConstMetric(c.responseTimeCount, prometheus.CounterValue, float64(snap.ResponseTimeCount))
}
