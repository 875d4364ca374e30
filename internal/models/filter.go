package models

// RecordFilter narrows paged record listings. Status is compared after
// normalisation; an empty Status matches everything.
type RecordFilter struct {
	Status   string
	Page     int
	PageSize int
}

// Normalize applies paging defaults and returns the offset.
func (f *RecordFilter) Normalize() (limit, offset int) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 || f.PageSize > 100 {
		f.PageSize = 20
	}
	f.Status = NormalizeStatus(f.Status)
	return f.PageSize, (f.Page - 1) * f.PageSize
}
