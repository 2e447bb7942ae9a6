package memstore

import (
	"context"
	"fmt"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/dto/requests"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Locker grants each key to one holder at a time. Busy makes every TryLock fail.
type Locker struct {
	mu    sync.Mutex
	held  map[string]string
	seq   int
	Busy  bool
	Calls int
}

func NewLocker() *Locker {
	return &Locker{held: map[string]string{}}
}

func (l *Locker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Calls++
	if l.Busy {
		return false, "", nil
	}
	if _, ok := l.held[key]; ok {
		return false, "", nil
	}
	l.seq++
	value := fmt.Sprintf("lock-%d", l.seq)
	l.held[key] = value
	return true, value, nil
}

func (l *Locker) Unlock(ctx context.Context, key, lockValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == lockValue {
		delete(l.held, key)
	}
	return nil
}

func (l *Locker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

func (l *Locker) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[key]
	return ok
}

// Redis stores JSON-encoded values the way the redis repository does. Expiry is ignored.
type Redis struct {
	mu   sync.Mutex
	Data map[string]string
}

func NewRedis() *Redis {
	return &Redis{Data: map[string]string{}}
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Data, key)
	return nil
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Data[key] = string(encoded)
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Data[key], nil
}

func (r *Redis) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Data[key]; ok {
		return false, nil
	}
	r.Data[key] = string(encoded)
	return true, nil
}

func (r *Redis) Expire(ctx context.Context, key string, exp time.Duration) error {
	return nil
}

func (r *Redis) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count, _ := strconv.Atoi(r.Data[key])
	count++
	r.Data[key] = strconv.Itoa(count)
	return count, nil
}

type Upload struct {
	Bucket string
	Object string
	Size   int64
}

// Storage records uploads. Err fails every upload.
type Storage struct {
	mu      sync.Mutex
	Uploads []Upload
	Err     error
	// OnUpload runs before each upload is recorded, while the caller waits on it.
	OnUpload func()
}

func (s *Storage) UploadFile(ctx context.Context, file *requests.FileUpload, bucketName, objectName string) (string, error) {
	if s.OnUpload != nil {
		s.OnUpload()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.Uploads = append(s.Uploads, Upload{Bucket: bucketName, Object: objectName, Size: file.Size})
	return objectName, nil
}

func (s *Storage) GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s/%s?expires=%d", bucketName, objectName, int(expiryTime.Seconds())), nil
}

type Message struct {
	Queue   string
	Payload interface{}
}

type Publisher struct {
	mu       sync.Mutex
	Messages []Message
	Err      error
}

func (p *Publisher) Publish(ctx context.Context, queueName string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Messages = append(p.Messages, Message{Queue: queueName, Payload: message})
	return nil
}

// On returns the messages published to queueName.
func (p *Publisher) On(queueName string) []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Message
	for _, m := range p.Messages {
		if m.Queue == queueName {
			out = append(out, m)
		}
	}
	return out
}

// Inventory reserves and releases stock directly on the store.
type Inventory struct {
	Store *Store
}

func (i *Inventory) Reserve(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	offerings := &OfferingRepository{Store: i.Store}
	for _, item := range items {
		ok, err := offerings.DecrementStock(ctx, item.ProviderID, item.ItemID, item.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("offering %s/%s cannot cover %d", item.ProviderID, item.ItemID, item.Quantity)
		}
	}
	order.StockReserved = true
	return nil
}

func (i *Inventory) Release(ctx context.Context, order *models.Order) error {
	if !order.StockReserved {
		return nil
	}
	items, err := (&OrderItemRepository{Store: i.Store}).FindByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}
	offerings := &OfferingRepository{Store: i.Store}
	for _, item := range items {
		if err := offerings.IncrementStock(ctx, item.ProviderID, item.ItemID, item.Quantity); err != nil {
			return err
		}
	}
	order.StockReserved = false
	return nil
}
