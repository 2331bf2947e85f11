package postgres

import (
	"database/sql"

	"learnledger-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.BankAccountRepository
	repository.TransactionRepository
	repository.CourseRepository
	repository.EnrollmentRepository
	repository.CertificateRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		UserRepository:        NewUserRepository(db),
		BankAccountRepository: NewBankAccountRepository(db),
		TransactionRepository: NewTransactionRepository(db),
		CourseRepository:      NewCourseRepository(db),
		EnrollmentRepository:  NewEnrollmentRepository(db),
		CertificateRepository: NewCertificateRepository(db),
	}
}
