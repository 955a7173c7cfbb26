package flip

import "strings"

// BaseItemName - имя оружия с killstreak: "{Quality }Killstreak {weapon}".
func BaseItemName(quality, weapon string) string {
	return qualityPrefix(quality) + "Killstreak " + weapon
}

// KitName - имя кита: "Non-Craftable {Quality }Killstreak {weapon} Kit".
func KitName(quality, weapon string) string {
	return "Non-Craftable " + qualityPrefix(quality) + "Killstreak " + weapon + " Kit"
}

func qualityPrefix(quality string) string {
	quality = strings.TrimSpace(quality)
	if quality == "" {
		return ""
	}

	return quality + " "
}
