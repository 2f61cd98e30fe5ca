package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
)

// Op constants map to Valkey/Redis command names for error context.
const (
	OpDel       = "DEL"
	OpMulti     = "MULTI"
	OpHGetAll   = "HGETALL"
	OpHSet      = "HSET"
	OpHSetNX    = "HSETNX"
	OpHIncrBy   = "HINCRBY"
	OpExists    = "EXISTS"
	OpGet       = "GET"
	OpSet       = "SET"
	OpIncrBy    = "INCRBY"
	OpSAdd      = "SADD"
	OpSMembers  = "SMEMBERS"
	OpSCard     = "SCARD"
	OpZAdd      = "ZADD"
	OpZIncrBy   = "ZINCRBY"
	OpZRevRange = "ZREVRANGE"
	OpZScore    = "ZSCORE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
