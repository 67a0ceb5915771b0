package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE usados para traducir errores a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único.
func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

// isForeignKeyViolation la fila sigue referenciada (ej. ítem con movimientos).
func isForeignKeyViolation(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// isCheckViolation on_hand_qty >= 0 y demás CHECK del esquema.
func isCheckViolation(err error) bool { return pgCode(err) == codeCheckViolation }

// isInvalidText ej. un id que no es UUID: para el dominio equivale a "no existe".
func isInvalidText(err error) bool { return pgCode(err) == codeInvalidText }

// isNotFound sin filas o clave mal formada.
func isNotFound(err error) bool { return errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) }

// nullString "" -> NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
