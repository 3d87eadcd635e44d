package model

import (
	"time"
)

// Timestamps 基础时间戳字段
// 业务实体使用带前缀的业务主键 (如 OD000001)，不使用自增/UUID 主键，
// 因此这里只保留时间戳，不复用 gorm.Model
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
