package constants

import "strings"

// DistrictKeywords are the county/city tokens recognized in invoice addresses.
var DistrictKeywords = []string{
	"台北", "台中", "高雄", "台南", "屏東", "新北", "桃園", "新竹", "宜蘭", "苗栗",
	"彰化", "南投", "雲林", "嘉義", "台東", "花蓮", "金門", "連江", "澎湖",
}

// ContainsDistrict reports whether s mentions any known county/city token.
func ContainsDistrict(s string) bool {
	for _, d := range DistrictKeywords {
		if strings.Contains(s, d) {
			return true
		}
	}
	return false
}
