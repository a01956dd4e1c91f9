/**
 * 工具包:地理距离计算
 * @author: sun977
 * @date: 2026.03.14
 * @description: 基于haversine公式的大圆距离计算，供运输路由代理估算运输距离
 * @func: HaversineMiles
 */
package geo

import (
	"math"
)

// earthRadiusMiles 地球半径(英里)
const earthRadiusMiles = 3959.0

// HaversineMiles 计算两个经纬度坐标之间的大圆距离(英里)
// 距离满足对称性: HaversineMiles(A,B) == HaversineMiles(B,A)
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}
