package models

// DocumentTemplate is immutable reference data compiled into the service.
// The catalog is not persisted; filtering happens over this slice.
type DocumentTemplate struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Popular     bool   `json:"popular"`
	Complexity  string `json:"complexity"` // "basic", "standard", "advanced"
}

// Template categories. CategoryAll bypasses the category filter.
const (
	CategoryAll        = "all"
	CategoryPersonal   = "Personal"
	CategoryBusiness   = "Business"
	CategoryRealEstate = "Real Estate"
	CategoryFamily     = "Family"
	CategoryFinancial  = "Financial"
)

// DocumentTemplates is the static template catalog
var DocumentTemplates = []DocumentTemplate{
	{
		ID:          1,
		Name:        "Last Will and Testament",
		Category:    CategoryPersonal,
		Description: "Specify how your estate is distributed and name guardians for minor children.",
		Popular:     true,
		Complexity:  "standard",
	},
	{
		ID:          2,
		Name:        "Non-Disclosure Agreement",
		Category:    CategoryBusiness,
		Description: "Protect confidential information shared between two parties.",
		Popular:     true,
		Complexity:  "basic",
	},
	{
		ID:          3,
		Name:        "Employment Contract",
		Category:    CategoryBusiness,
		Description: "Define the terms of employment, compensation, and termination conditions.",
		Popular:     false,
		Complexity:  "standard",
	},
	{
		ID:          4,
		Name:        "Residential Lease Agreement",
		Category:    CategoryRealEstate,
		Description: "Set rent, deposit, and tenancy terms for a residential property.",
		Popular:     true,
		Complexity:  "standard",
	},
	{
		ID:          5,
		Name:        "Power of Attorney",
		Category:    CategoryPersonal,
		Description: "Authorize a trusted person to act on your behalf in legal and financial matters.",
		Popular:     false,
		Complexity:  "basic",
	},
	{
		ID:          6,
		Name:        "LLC Operating Agreement",
		Category:    CategoryBusiness,
		Description: "Establish ownership, management structure, and profit allocation for an LLC.",
		Popular:     false,
		Complexity:  "advanced",
	},
	{
		ID:          7,
		Name:        "Divorce Settlement Agreement",
		Category:    CategoryFamily,
		Description: "Divide assets, debts, and parental responsibilities between separating spouses.",
		Popular:     false,
		Complexity:  "advanced",
	},
	{
		ID:          8,
		Name:        "Promissory Note",
		Category:    CategoryFinancial,
		Description: "Document a loan between parties with repayment schedule and interest terms.",
		Popular:     false,
		Complexity:  "basic",
	},
}

// DocumentDownload describes the result of a template download request.
// Document generation is not implemented; the descriptor stands in for the
// generated file.
type DocumentDownload struct {
	TemplateID  int    `json:"templateId"`
	Name        string `json:"name"`
	FileName    string `json:"fileName"`
	Format      string `json:"format"`
	RequestedBy string `json:"requestedBy"`
	RequestedAt string `json:"requestedAt"`
}
