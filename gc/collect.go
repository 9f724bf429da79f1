package gc

// Collect runs one stop-the-world mark-and-sweep cycle: mark starts from
// every object with root > 0 and walks reachable Gc-kind fields
// transitively (value-struct fields are inlined in the same object body,
// so they need no separate walk — their own Gc-kind sub-fields already
// live in this object's gcRefs map under their flattened offset);
// sweep frees every object whose mark is stale. No finalizers run: types
// are plain data. Collect returns the number of objects reclaimed.
func (h *Heap) Collect() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stw = true
	defer func() { h.stw = false }()

	h.epoch++
	epoch := h.epoch

	for obj := range h.objects {
		if obj.root > 0 {
			mark(obj, epoch)
		}
	}

	reclaimed := 0
	for obj := range h.objects {
		if obj.mark != epoch {
			delete(h.objects, obj)
			reclaimed++
		}
	}
	h.freed += uint64(reclaimed)
	return reclaimed
}

func mark(obj *object, epoch uint64) {
	if obj.mark == epoch {
		return
	}
	obj.mark = epoch
	for _, ref := range obj.gcRefs {
		if ref != nil && ref.obj != nil {
			mark(ref.obj, epoch)
		}
	}
}

