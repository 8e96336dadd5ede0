package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agsexpress/backoffice/config"
	"github.com/agsexpress/backoffice/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps customer and company master rows warm. Masters change
// rarely but are read on every generation and listing request.
type RedisCache struct {
	client    *redis.Client
	masterTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, masterTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		masterTTL: masterTTL,
	}
}

func (c *RedisCache) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	data, err := c.client.Get(ctx, customerKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var customer domain.Customer
	if err := json.Unmarshal(data, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *RedisCache) SetCustomer(ctx context.Context, customer *domain.Customer) error {
	payload, err := json.Marshal(customer)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, customerKey(customer.ID), payload, c.masterTTL).Err()
}

func (c *RedisCache) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	data, err := c.client.Get(ctx, companyKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var company domain.Company
	if err := json.Unmarshal(data, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *RedisCache) SetCompany(ctx context.Context, company *domain.Company) error {
	payload, err := json.Marshal(company)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, companyKey(company.ID), payload, c.masterTTL).Err()
}

func customerKey(id string) string {
	return fmt.Sprintf("cache:customer:%s", id)
}

func companyKey(id string) string {
	return fmt.Sprintf("cache:company:%s", id)
}
