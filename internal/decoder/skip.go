package decoder

// skipValue advances past numberToSkip consecutive values at offset without
// decoding any of them: the structural fast path taken whenever the caller's
// callback tree has no sink covering this position. A MAP or SLICE simply
// grows the remaining work (2 values per map entry, 1 per slice element)
// rather than recursing, so skipping a deeply nested but uninteresting
// subtree costs one pass over its control bytes and nothing else.
func (d *Decoder) skipValue(offset, numberToSkip uint) (uint, error) {
	for numberToSkip > 0 {
		kind, size, next, err := d.decodeCtrlData(offset)
		if err != nil {
			return 0, err
		}
		switch kind {
		case KindPointer:
			_, next, err = d.decodePointer(size, next)
			if err != nil {
				return 0, err
			}
		case KindMap:
			numberToSkip += 2 * size
		case KindSlice:
			numberToSkip += size
		case KindBool:
			// size carries the boolean value itself; no payload bytes follow.
		default:
			next += size
		}
		offset = next
		numberToSkip--
	}
	return offset, nil
}
