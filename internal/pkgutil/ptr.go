package pkgutil

// Pointer and Value are adapted from the teacher's pkg/ptr: small helpers
// for the many optional fields in the wiki data model (Repository.RemoteURL,
// Catalog.ParentID, ...).
func Pointer[V any](v V) *V { return &v }

func Value[T any](p *T) (v T) {
	if p != nil {
		return *p
	}
	return
}
