package data

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/content_flow/app/content_flow/internal/conf"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/storage"
)

type Data struct {
	// store 未配置数据库时为 nil
	store *storage.Storage
}

// NewData 打开数据库并建表，未配置数据库时返回空 Data
func NewData(c *conf.Flow, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	db := c.ToConfig().DB
	if !db.Enabled() {
		helper.Warn("database not configured, workflow history is disabled")
		return &Data{}, func() {}, nil
	}

	store, err := storage.NewStorage(db)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		store.Close()
	}
	return &Data{store: store}, cleanup, nil
}

// Store 返回持久化实例，可能为 nil
func (d *Data) Store() *storage.Storage {
	return d.store
}
