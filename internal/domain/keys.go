package domain

// KeyPrefix is the namespace for every key artwatch writes to a key-value backend.
const KeyPrefix = "artwatch:"
