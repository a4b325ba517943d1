package repository

import "gorm.io/gorm"

// 服务层已按接口限制页大小，这里兜底防止整表扫描
const maxPageSize = 200

// paginate 分页 scope，页码从 1 开始，pageSize<=0 时不分页
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
		if page < 1 {
			page = 1
		}
		offset := (page - 1) * pageSize
		if offset < 0 {
			offset = 0
		}
		return db.Limit(pageSize).Offset(offset)
	}
}

// findPage 先统计总数，再经 shape（排序、预加载）取当前页
// 总数为 0 时不再查询明细
func findPage[T any](query *gorm.DB, page, pageSize int, shape func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]T, 0)
	if total == 0 {
		return items, 0, nil
	}
	if shape != nil {
		query = shape(query)
	}
	if err := query.Scopes(paginate(page, pageSize)).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
