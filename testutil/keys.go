package testutil

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
)

// A fixed key pair for tests that compile signature checks.
var (
	TestPrivKey    *btcec.PrivateKey
	TestPubKey     []byte // compressed
	TestPubKeyHash []byte // HASH160 of TestPubKey
)

func init() {
	seed := sha256.Sum256([]byte("txsc test key"))
	TestPrivKey, _ = btcec.PrivKeyFromBytes(seed[:])
	TestPubKey = TestPrivKey.PubKey().SerializeCompressed()
	TestPubKeyHash = btcutil.Hash160(TestPubKey)
}
