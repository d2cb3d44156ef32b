package hotkey

import (
	"fmt"
	"strings"
)

// ParseModifiers converts a modifier combination (e.g., "control+mod3") into
// a ModMask. An empty string yields an empty mask.
func ParseModifiers(str string) (ModMask, error) {
	var mask ModMask
	if strings.TrimSpace(str) == "" {
		return mask, nil
	}

	for _, part := range strings.Split(strings.ToLower(str), "+") {
		bit, exists := ModifierMap[strings.TrimSpace(part)]
		if !exists {
			return 0, fmt.Errorf("unsupported modifier %q: expected shift, lock, control, mod1, mod2, mod3, mod4 or mod5", part)
		}
		mask |= bit
	}

	return mask, nil
}
