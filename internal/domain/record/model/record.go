package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CycleRecord 生理周期记录，存放在文档库
type CycleRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"user_id" json:"userId"`
	LastPeriodDate time.Time          `bson:"last_period_date" json:"lastPeriodDate"`
	CycleLength    int                `bson:"cycle_length" json:"cycleLength"`
	PeriodLength   int                `bson:"period_length" json:"periodLength"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`

	// 预测字段，写入时计算
	NextPeriodDate time.Time `bson:"next_period_date" json:"nextPeriodDate"`
	OvulationDate  time.Time `bson:"ovulation_date" json:"ovulationDate"`
}

// TestTemplate 检验结果模板，管理员维护，随检验服务展示
type TestTemplate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ServiceID string             `bson:"service_id" json:"serviceId"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
