package medication

import "context"

// Repository - локальный кэш лекарств.
type Repository interface {
	ReplaceAll(ctx context.Context, meds []Medication) error
	Save(ctx context.Context, m Medication) error
	List(ctx context.Context) ([]Medication, error)
	AddStock(ctx context.Context, id string, quantity int) error
}

// Backend - операции с лекарствами на сервере.
type Backend interface {
	ListMedications(ctx context.Context) ([]Medication, error)
	CreateMedication(ctx context.Context, req CreateRequest) (*Medication, error)
	AddStock(ctx context.Context, id string, quantity int) error
}
