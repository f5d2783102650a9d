package values

// Merge overlays src onto dst and returns dst.
//
// Mappings present on both sides are merged key by key; any other value in
// src, sequences included, replaces what dst holds at that key. dst is
// modified in place and must be owned by the caller, typically a Copy.
// src is never modified and nothing from it is aliased into dst.
func Merge(src, dst Tree) Tree {
	return merge(src, dst, false)
}

// MergeAppend is Merge except that sequences present on both sides are
// concatenated, dst elements first. Generated auth fragments are layered
// with it.
func MergeAppend(src, dst Tree) Tree {
	return merge(src, dst, true)
}

func merge(src, dst Tree, appendSeq bool) Tree {
	if dst == nil {
		dst = Tree{}
	}
	for k, sv := range src {
		dv, exists := dst[k]
		if !exists {
			dst[k] = copyValue(sv)
			continue
		}

		sm, sIsMap := AsTree(sv)
		dm, dIsMap := AsTree(dv)
		if sIsMap && dIsMap {
			dst[k] = map[string]interface{}(merge(sm, dm, appendSeq))
			continue
		}

		if appendSeq {
			ss, sIsSeq := sv.([]interface{})
			ds, dIsSeq := dv.([]interface{})
			if sIsSeq && dIsSeq {
				joined := make([]interface{}, 0, len(ds)+len(ss))
				joined = append(joined, ds...)
				for _, item := range ss {
					joined = append(joined, copyValue(item))
				}
				dst[k] = joined
				continue
			}
		}

		dst[k] = copyValue(sv)
	}
	return dst
}
