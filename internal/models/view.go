package models

// Поля сортировки списка.
const (
	SortName             = "name"
	SortPhone            = "phone"
	SortSubscriptionType = "subscriptionType"
	SortStartDate        = "startDate"
	SortStatus           = "status"
)

// Направления сортировки.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultPageSize размер страницы списка по умолчанию.
const DefaultPageSize = 10

// ViewQuery параметры отображения списка: фильтры, сортировка и страница.
type ViewQuery struct {
	Search    string `json:"search"`
	Type      string `json:"type"`
	Status    Status `json:"status"`
	SortField string `json:"sortField"`
	SortDir   string `json:"sortDir"`
	Page      int    `json:"page"`
	PageSize  int    `json:"pageSize"`
}

// DefaultViewQuery возвращает исходное состояние списка: сортировка по имени, первая страница.
func DefaultViewQuery() ViewQuery {
	return ViewQuery{
		SortField: SortName,
		SortDir:   SortAsc,
		Page:      1,
		PageSize:  DefaultPageSize,
	}
}

// ValidSortField проверяет поле сортировки.
func ValidSortField(field string) bool {
	switch field {
	case SortName, SortPhone, SortSubscriptionType, SortStartDate, SortStatus:
		return true
	}
	return false
}
