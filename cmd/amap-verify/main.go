// 交叉核对工具：本地换算与高德坐标转换接口逐点比对，输出偏差（米）
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"coord-api/internal/amap"
	"coord-api/internal/config"
	"coord-api/internal/coordsys"
	"coord-api/internal/logger"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

func main() {
	config.LoadDotEnv()
	l := logger.Setup()

	key := os.Getenv("AMAP_SERVER_KEY")
	if key == "" {
		l.Error("config_missing_key", "env", "AMAP_SERVER_KEY")
		os.Exit(2)
	}
	from := coordsys.WGS84
	if v := os.Getenv("VERIFY_FROM"); v != "" {
		s, err := coordsys.ParseSystem(v)
		if err != nil {
			l.Error("config_from_error", "err", err)
			os.Exit(2)
		}
		from = s
	}
	tol := 1.0
	if v := os.Getenv("VERIFY_TOLERANCE_M"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			tol = f
		}
	}
	qps := 3.0
	if v := os.Getenv("AMAP_QPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			qps = f
		}
	}

	var in io.Reader = os.Stdin
	if p := os.Getenv("VERIFY_INPUT"); p != "" && p != "-" {
		f, err := os.Open(p)
		if err != nil {
			l.Error("input_open_error", "path", p, "err", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}
	pts, err := readPoints(in)
	if err != nil {
		l.Error("input_parse_error", "err", err)
		os.Exit(1)
	}
	local, err := coordsys.ConvertBatch(pts, from, coordsys.GCJ02)
	if err != nil {
		l.Error("local_convert_error", "err", err)
		os.Exit(1)
	}

	client, err := amap.NewClient(key, qps)
	if err != nil {
		l.Error("amap_client_error", "err", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	remote, err := client.Convert(ctx, pts, from)
	if err != nil {
		l.Error("amap_convert_error", "err", err)
		os.Exit(1)
	}

	rep := compare(local, remote)
	for i, d := range rep.deviations {
		l.Debug("verify_point", "index", i, "lat", pts[i].Lat, "lon", pts[i].Lon, "deviation_m", d)
	}
	l.Info("verify_summary", "from", from.String(), "points", len(pts), "max_m", rep.max, "mean_m", rep.mean, "worst_index", rep.worst, "tolerance_m", tol)
	if rep.max > tol {
		l.Error("verify_failed", "max_m", rep.max, "tolerance_m", tol)
		os.Exit(1)
	}
}

// readPoints 每行 "lat,lon"；空行与 # 开头的行跳过
func readPoints(r io.Reader) ([]coordsys.LatLon, error) {
	sc := bufio.NewScanner(r)
	var out []coordsys.LatLon
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		latS, lonS, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("line %d: want lat,lon", line)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad lat %q", line, latS)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lonS), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad lon %q", line, lonS)
		}
		out = append(out, coordsys.LatLon{Lat: lat, Lon: lon})
	}
	return out, sc.Err()
}

type report struct {
	deviations []float64
	max, mean  float64
	worst      int
}

// compare 逐点计算大圆距离（米）；两侧长度由调用方保证一致
func compare(local, remote []coordsys.LatLon) report {
	rep := report{deviations: make([]float64, len(local)), worst: -1}
	if len(local) == 0 {
		return rep
	}
	sum := 0.0
	for i := range local {
		d := geo.Distance(orb.Point{local[i].Lon, local[i].Lat}, orb.Point{remote[i].Lon, remote[i].Lat})
		rep.deviations[i] = d
		sum += d
		if rep.worst < 0 || d > rep.max {
			rep.max, rep.worst = d, i
		}
	}
	rep.mean = sum / float64(len(local))
	return rep
}
