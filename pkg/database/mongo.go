package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"healthcare_booking/internal/pkg/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongo 初始化 MongoDB 连接
// 文档库只承载两个辅助集合 (经期计算、检验结果模板)，与关系库无事务耦合
func InitMongo(cfg config.MongoConfig) *mongo.Database {
	uri := cfg.URI
	if uri == "" {
		uri = fmt.Sprintf("mongodb://%s:%s@%s:%s", cfg.Username, cfg.Password, cfg.Host, cfg.Port)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to mongo database: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping mongo database: %v", err)
	}

	log.Println("Successfully connected to mongo database")
	return client.Database(cfg.Database)
}
