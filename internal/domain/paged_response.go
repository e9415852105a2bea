package domain

// PaginatedResponse представляет страницу списка, возвращаемую API.
// Остальные поля конверта игнорируются.
type PaginatedResponse[T any] struct {
	Items       []T `json:"items"`       // Элементы на текущей странице
	TotalPages  int `json:"totalPages"`  // Общее количество страниц
	CurrentPage int `json:"currentPage"` // Текущая страница
}

// HasPrevious сообщает, есть ли страница перед текущей
func (p *PaginatedResponse[T]) HasPrevious() bool {
	return p.CurrentPage > 1
}

// HasNext сообщает, есть ли страница после текущей
func (p *PaginatedResponse[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// Pages возвращает номера всех страниц для пагинатора
func (p *PaginatedResponse[T]) Pages() []int {
	pages := make([]int, 0, p.TotalPages)
	for i := 1; i <= p.TotalPages; i++ {
		pages = append(pages, i)
	}
	return pages
}

// PageOverflow возвращает последнюю допустимую страницу, если запрошена страница за ее пределами
func (p *PaginatedResponse[T]) PageOverflow(requested int) (int, bool) {
	if p.TotalPages > 0 && requested > p.TotalPages {
		return p.TotalPages, true
	}
	return 0, false
}
