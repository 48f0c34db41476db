package api

import "coord-api/internal/coordsys"

// 文档注释：对外请求/响应模型
// 背景：请求结构携带 validator 标签做入口校验；换算内核仍会做权威校验。
// 约束：字段稳定；坐标统一 lat/lon 命名，坐标系以规范名（WGS-84/GCJ-02/BD-09）输出。
type pointBody struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

type convertRequest struct {
	pointBody
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

type batchRequest struct {
	From   string      `json:"from" validate:"required"`
	To     string      `json:"to" validate:"required"`
	Points []pointBody `json:"points" validate:"dive"`
}

type convertResponse struct {
	Lat float64         `json:"lat"`
	Lon float64         `json:"lon"`
	Sys coordsys.System `json:"sys"`
}

type batchResponse struct {
	Sys    coordsys.System   `json:"sys"`
	Points []coordsys.LatLon `json:"points"`
}

type classifyResponse struct {
	Lat    float64         `json:"lat"`
	Lon    float64         `json:"lon"`
	Region coordsys.Region `json:"region"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
