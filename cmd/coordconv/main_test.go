package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"coord-api/internal/coordsys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ConvertsColumnsInPlace(t *testing.T) {
	in := "id,lat,lon,name\n1,39.9087,116.3975,tiananmen\n2,51.5074,-0.1278,london\n"
	var out bytes.Buffer
	n, err := run(strings.NewReader(in), &out, convOptions{from: coordsys.WGS84, to: coordsys.GCJ02, latCol: "lat", lonCol: "lon", workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lat, lon := coordsys.WGS84ToGCJ02(39.9087, 116.3975)
	want := "id,lat,lon,name\n" +
		"1," + strconv.FormatFloat(lat, 'f', 7, 64) + "," + strconv.FormatFloat(lon, 'f', 7, 64) + ",tiananmen\n" +
		"2,51.5074000,-0.1278000,london\n"
	assert.Equal(t, want, out.String())
}

func TestRun_CustomColumns(t *testing.T) {
	in := "Y,X\n39.9,116.4\n"
	var out bytes.Buffer
	_, err := run(strings.NewReader(in), &out, convOptions{from: coordsys.GCJ02, to: coordsys.BD09, latCol: "y", lonCol: "x", workers: 1})
	require.NoError(t, err)
	lat, lon := coordsys.GCJ02ToBD09(39.9, 116.4)
	assert.Equal(t, "Y,X\n"+strconv.FormatFloat(lat, 'f', 7, 64)+","+strconv.FormatFloat(lon, 'f', 7, 64)+"\n", out.String())
}

func TestRun_Errors(t *testing.T) {
	opts := convOptions{from: coordsys.WGS84, to: coordsys.GCJ02, latCol: "lat", lonCol: "lon", workers: 1}
	cases := []struct {
		name string
		in   string
		msg  string
	}{
		{"empty", "", "empty input"},
		{"missing column", "a,b\n1,2\n", "missing column"},
		{"bad number", "lat,lon\n39.9,116.4\nx,116.4\n", "row 3"},
		{"out of range", "lat,lon\n39.9,116.4\n39.9,116.4\n95,116.4\n", "row 4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := run(strings.NewReader(tc.in), &out, opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
			assert.Zero(t, out.Len())
		})
	}
}

func TestConvertFile_WritesOnlyOnSuccess(t *testing.T) {
	dir := t.TempDir()
	opts := convOptions{from: coordsys.WGS84, to: coordsys.GCJ02, latCol: "lat", lonCol: "lon", workers: 1}

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("lat,lon\n39.9,116.4\n95,116.4\n"), 0o644))
	out := filepath.Join(dir, "out.csv")
	_, err := convertFile(bad, out, opts)
	require.ErrorContains(t, err, "row 3")
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))

	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte("lat,lon\n51.5,-0.12\n"), 0o644))
	n, err := convertFile(good, out, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "lat,lon\n51.5000000,-0.1200000\n", string(b))

	// 失败时不覆盖已有输出，也不留下临时文件
	_, err = convertFile(bad, out, opts)
	require.Error(t, err)
	b, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "lat,lon\n51.5000000,-0.1200000\n", string(b))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
