package metrics

import (
	"context"
	"fmt"
	"log"
	"time"

	client "github.com/influxdata/influxdb1-client/v2"
)

// InfluxConfig locates the InfluxDB server.
type InfluxConfig struct {
	Host     string `json:"influx_host"`
	Port     int    `json:"influx_port"`
	Database string `json:"influx_db"`
	// Interval is the snapshot window in seconds.
	Interval int `json:"influx_interval"`
}

// InfluxReporter writes snapshots as "metrics" points.
type InfluxReporter struct {
	client   client.Client
	database string
	tags     map[string]string
}

// NewInfluxReporter connects and creates the database if needed. tags
// are added to every point.
func NewInfluxReporter(cfg InfluxConfig, tags map[string]string) (*InfluxReporter, error) {
	influxURL := fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port)
	c, err := client.NewHTTPClient(client.HTTPConfig{Addr: influxURL})
	if err != nil {
		return nil, fmt.Errorf("error creating InfluxDB client: %v", err)
	}
	r := &InfluxReporter{client: c, database: cfg.Database, tags: tags}
	if err := r.ensureDatabase(); err != nil {
		c.Close()
		return nil, err
	}
	return r, nil
}

func (r *InfluxReporter) ensureDatabase() error {
	q := client.NewQuery(fmt.Sprintf("CREATE DATABASE \"%s\"", r.database), "", "")
	resp, err := r.client.Query(q)
	if err != nil {
		return fmt.Errorf("error creating database %s: %v", r.database, err)
	}
	if resp.Error() != nil {
		return fmt.Errorf("error creating database %s: %v", r.database, resp.Error())
	}
	return nil
}

// Points converts a snapshot to InfluxDB points.
func Points(snap Snapshot, tags map[string]string) ([]*client.Point, error) {
	var pts []*client.Point
	add := func(metric string, value interface{}) error {
		t := map[string]string{"metric": metric}
		for k, v := range tags {
			t[k] = v
		}
		p, err := client.NewPoint("metrics", t, map[string]interface{}{"value": value}, snap.Time)
		if err != nil {
			return fmt.Errorf("point %s: %v", metric, err)
		}
		pts = append(pts, p)
		return nil
	}
	for kind, n := range snap.WindowCounts {
		if err := add("window_"+kind, n); err != nil {
			return nil, err
		}
	}
	for kind, n := range snap.Totals {
		if err := add("total_"+kind, n); err != nil {
			return nil, err
		}
	}
	for _, t := range []struct {
		metric string
		value  interface{}
	}{
		{"window_failures", snap.WindowFailure},
		{"avg_sentences_per_sec", snap.AvgPerSec},
		{"uptime_seconds", snap.UptimeSeconds},
	} {
		if err := add(t.metric, t.value); err != nil {
			return nil, err
		}
	}
	return pts, nil
}

// Write sends one snapshot.
func (r *InfluxReporter) Write(snap Snapshot) error {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  r.database,
		Precision: "s",
	})
	if err != nil {
		return fmt.Errorf("error creating batch points: %v", err)
	}
	pts, err := Points(snap, r.tags)
	if err != nil {
		return err
	}
	bp.AddPoints(pts)
	return r.client.Write(bp)
}

// Run rolls s every interval and writes the snapshot until ctx ends.
func (r *InfluxReporter) Run(ctx context.Context, s *Stats, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := r.Write(s.Roll(now, interval)); err != nil {
				log.Printf("Error writing metrics to InfluxDB: %v", err)
			}
		}
	}
}

func (r *InfluxReporter) Close() error {
	return r.client.Close()
}
