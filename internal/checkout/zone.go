package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Zone is a shipping fee bucket.
type Zone string

const (
	ZoneUnset           Zone = ""
	ZoneNCR             Zone = "NCR"
	ZoneLuzon           Zone = "LUZON"
	ZoneVisayasMindanao Zone = "VISAYAS_MINDANAO"
)

// Zones lists the selectable zones in display order.
var Zones = []Zone{ZoneNCR, ZoneLuzon, ZoneVisayasMindanao}

var zoneFees = map[Zone]int64{
	ZoneNCR:             160,
	ZoneLuzon:           165,
	ZoneVisayasMindanao: 190,
}

// Fee is the flat shipping fee for z. Unset and unknown zones cost nothing.
func Fee(z Zone) decimal.Decimal {
	fee, ok := zoneFees[z]
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromInt(fee)
}

func (z Zone) Valid() bool {
	_, ok := zoneFees[z]
	return ok
}

// Label renders the zone for customers, e.g. "VISAYAS & MINDANAO".
func (z Zone) Label() string {
	return strings.Replace(string(z), "_", " & ", 1)
}

func ParseZone(s string) (Zone, error) {
	z := Zone(strings.ToUpper(strings.TrimSpace(s)))
	if z == ZoneUnset || z.Valid() {
		return z, nil
	}
	return ZoneUnset, fmt.Errorf("parse zone %q: %w", s, ErrUnknownZone)
}
