package model

// ExperimentFilter holds criteria for querying experiments.
type ExperimentFilter struct {
	Platform  string `json:"platform,omitempty"`  // membership test against the platforms array
	UserGroup string `json:"userGroup,omitempty"` // exact match
	IsActive  *bool  `json:"isActive,omitempty"`
	Search    string `json:"search,omitempty"` // case-insensitive substring over name/expParameter
}

// IsZero reports whether the filter has no criteria set.
func (f ExperimentFilter) IsZero() bool {
	return f.Platform == "" && f.UserGroup == "" && f.IsActive == nil && f.Search == ""
}
