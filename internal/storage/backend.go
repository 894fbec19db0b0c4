package storage

import (
	"context"
	"errors"
)

var ErrNotExist = errors.New("backing document does not exist")

// Backend хранит один документ целиком: чтение и полная перезапись
type Backend interface {
	// Read возвращает ErrNotExist, если документ еще ни разу не записывался
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}
