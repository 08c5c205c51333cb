package market

import (
	"fmt"
	"time"
)

// TimeframeString maps a bar duration in seconds to its short name (M5, H1, ...).
func TimeframeString(sec int32) (string, error) {
	if sec <= 0 {
		return "", fmt.Errorf("invalid timeframe seconds: %d", sec)
	}

	// Minutes
	if sec < 3600 && sec%60 == 0 {
		return fmt.Sprintf("M%d", sec/60), nil
	}

	// Hours
	if sec < 86400 && sec%3600 == 0 {
		return fmt.Sprintf("H%d", sec/3600), nil
	}

	// Days
	if sec%86400 == 0 {
		days := sec / 86400
		if days == 7 {
			return "W1", nil
		}
		if days == 30 {
			return "MN1", nil
		}
		return fmt.Sprintf("D%d", days), nil
	}

	return "", fmt.Errorf("cannot map timeframe: %d seconds", sec)
}

// ParseTimeframe returns the seconds for a timeframe name.
func ParseTimeframe(tf string) (int32, error) {
	switch tf {
	case "M1":
		return 60, nil
	case "M2":
		return 120, nil
	case "M3":
		return 180, nil
	case "M5":
		return 300, nil
	case "M15":
		return 900, nil
	case "M30":
		return 1800, nil
	case "H1":
		return 3600, nil
	case "H4":
		return 14400, nil
	case "D1":
		return 86400, nil
	case "W1":
		return 604800, nil
	case "MN1":
		return 2592000, nil
	default:
		return 0, fmt.Errorf("unsupported timeframe string: %s", tf)
	}
}

// TimeframeDuration is ParseTimeframe as a time.Duration.
func TimeframeDuration(tf string) (time.Duration, error) {
	sec, err := ParseTimeframe(tf)
	if err != nil {
		return 0, err
	}
	return time.Duration(sec) * time.Second, nil
}
