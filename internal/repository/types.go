package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	Category     string
	MainCategory string
	Search       string
	OnlyActive   bool
	OrderBy      string
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page     int
	PageSize int
	UserID   uint
	Status   string
}

// CommentListFilter 查询评价列表的过滤条件
type CommentListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
}
