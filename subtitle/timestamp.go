package subtitle

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errEmptyTimestamp = errors.New("empty timestamp")

// maxFractionDigits bounds the fractional part so the integer arithmetic cannot overflow.
const maxFractionDigits = 9

// parseTimestamp parses clock timestamps of the form [H:]MM:SS[.F] into seconds.
// Both '.' and ',' are accepted as the decimal separator. The value is computed in integer
// units of the fraction's precision, so "0:00:07.50" is exactly 7.5.
func parseTimestamp(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyTimestamp
	}

	fields := strings.Split(s, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return 0, fmt.Errorf("timestamp %q: expected 2 or 3 fields", s)
	}

	var hours int64
	if len(fields) == 3 {
		h, err := parseDigits(fields[0])
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: hours: %w", s, err)
		}
		hours = h
		fields = fields[1:]
	}

	minutes, err := parseDigits(fields[0])
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: minutes: %w", s, err)
	}
	if minutes >= 60 {
		return 0, fmt.Errorf("timestamp %q: minutes out of range", s)
	}

	whole, frac, hasFrac := strings.Cut(strings.Replace(fields[1], ",", ".", 1), ".")
	seconds, err := parseDigits(whole)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: seconds: %w", s, err)
	}
	if seconds >= 60 {
		return 0, fmt.Errorf("timestamp %q: seconds out of range", s)
	}

	var num, den int64 = 0, 1
	if hasFrac {
		if len(frac) > maxFractionDigits {
			frac = frac[:maxFractionDigits]
		}
		num, err = parseDigits(frac)
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: fraction: %w", s, err)
		}
		for range frac {
			den *= 10
		}
	}

	total := ((hours*60+minutes)*60+seconds)*den + num
	return float64(total) / float64(den), nil
}

// parseDigits accepts only unsigned decimal digits.
func parseDigits(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("missing digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("unexpected character %q", r)
		}
	}
	return strconv.ParseInt(s, 10, 64)
}

// parseTiming parses a "start --> end [settings]" line shared by WebVTT and SubRip.
func parseTiming(line string) (start, end float64, err error) {
	left, right, ok := strings.Cut(line, "-->")
	if !ok {
		return 0, 0, errors.New("missing --> separator")
	}

	start, err = parseTimestamp(left)
	if err != nil {
		return 0, 0, fmt.Errorf("start: %w", err)
	}

	fields := strings.Fields(right)
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("end: %w", errEmptyTimestamp)
	}
	end, err = parseTimestamp(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("end: %w", err)
	}

	return start, end, nil
}

// FormatTimestamp renders seconds as HH:MM:SS<sep>mmm, the SubRip (',') and WebVTT ('.') clock.
func FormatTimestamp(seconds float64, sep byte) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	m := (ms % 3_600_000) / 60_000
	s := (ms % 60_000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, sep, ms%1000)
}
