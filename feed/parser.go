package feed

import (
	"fmt"
	"strconv"
	"strings"

	"touchtrack/model"
)

// ParseLine decodes one touch trace line into a TouchEvent. Lines are the
// panel bridge's debug output, e.g.:
//
//	[00:01:12.886] <dbg> touch: sample: id: 0, type: down, x: 45, y: 12, t: 72886
//
// A line that carries no complete sample returns (nil, nil) so that
// unrelated log output can be skipped silently.
func ParseLine(line string) (*model.TouchEvent, error) {
	splits := strings.Split(line, " ")

	var (
		id, x, y   int
		t          int64
		typ        model.TouchType
		foundCount int
		err        error
	)

	ix := 0
	limit := len(splits) - 1 // We always care about the next token, so stop before it's too late

	for ix < limit {
		curItem := splits[ix]
		nextItem := strings.TrimRight(splits[ix+1], ",")

		switch curItem {
		case "id:":
			id, err = strconv.Atoi(nextItem)
			if err != nil {
				return nil, fmt.Errorf("could not parse pointer id: %w", err)
			}
			ix++
			foundCount++
		case "type:":
			// Trim the reset escape code some firmwares append.
			nextItem = strings.TrimSuffix(nextItem, "\x1b[0m")

			typ, err = parseTouchType(nextItem)
			if err != nil {
				return nil, err
			}
			ix++
			foundCount++
		case "x:":
			x, err = strconv.Atoi(nextItem)
			if err != nil {
				return nil, fmt.Errorf("could not parse x: %w", err)
			}
			ix++
			foundCount++
		case "y:":
			y, err = strconv.Atoi(nextItem)
			if err != nil {
				return nil, fmt.Errorf("could not parse y: %w", err)
			}
			ix++
			foundCount++
		case "t:":
			nextItem = strings.TrimSuffix(nextItem, "\x1b[0m")

			t, err = strconv.ParseInt(nextItem, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("could not parse timestamp: %w", err)
			}
			ix++
			foundCount++
		default:
		}

		ix++
	}

	if foundCount == 5 {
		return &model.TouchEvent{PointerID: id, Type: typ, X: x, Y: y, Time: t}, nil
	}

	return nil, nil
}

func parseTouchType(s string) (model.TouchType, error) {
	switch s {
	case "down":
		return model.TouchDown, nil
	case "move":
		return model.TouchMove, nil
	case "up":
		return model.TouchUp, nil
	case "cancel":
		return model.TouchCancel, nil
	default:
		return 0, fmt.Errorf("touch type unexpected: '%s'", s)
	}
}
