package domain

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("запись не найдена")
	ErrInvalidDate        = errors.New("неверный формат даты")
	ErrServiceNotFound    = errors.New("услуга не найдена")
	ErrProviderNotFound   = errors.New("специалист не найден")
	ErrServiceNotProvided = errors.New("специалист не оказывает выбранную услугу")
	ErrSlotTaken          = errors.New("выбранное время уже занято")
)
