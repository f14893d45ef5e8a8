package keystore

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test mnemonic (DO NOT use in production).
const testMnemonic = "notice oak worry limit wrap speak medal online prefer cluster roof addict wrist behave treat actual wasp year salad speed social layer crew genius"

func TestSignVerify_RoundTrip(t *testing.T) {
	kp, err := Generate("")
	require.NoError(t, err)

	msg := []byte("99.5")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	assert.True(t, Verify(kp.PubKey(), msg, sig))
}

func TestVerify_AlteredMessage(t *testing.T) {
	kp, err := Generate("")
	require.NoError(t, err)

	sig, err := kp.Sign([]byte("64000.1"))
	require.NoError(t, err)

	assert.False(t, Verify(kp.PubKey(), []byte("64000.2"), sig))
}

func TestVerify_CorruptedSignature(t *testing.T) {
	kp, err := Generate("")
	require.NoError(t, err)

	msg := []byte("64000.1")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	for i := range sig {
		corrupted := append([]byte(nil), sig...)
		corrupted[i] ^= 0x01
		assert.False(t, Verify(kp.PubKey(), msg, corrupted), "byte %d flipped", i)
	}

	assert.False(t, Verify(kp.PubKey(), msg, sig[:10]))
	assert.False(t, Verify(kp.PubKey(), msg, nil))
}

func TestVerify_SubstitutedKey(t *testing.T) {
	kp1, err := Generate("")
	require.NoError(t, err)
	kp2, err := Generate("")
	require.NoError(t, err)

	msg := []byte("100")
	sig, err := kp1.Sign(msg)
	require.NoError(t, err)

	assert.False(t, Verify(kp2.PubKey(), msg, sig))
}

func TestVerify_NilKeyNeverPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.False(t, Verify(nil, []byte("1"), []byte("sig")))
	})

	var typedNil *secp256k1.PubKey
	assert.NotPanics(t, func() {
		assert.False(t, Verify(typedNil, []byte("1"), make([]byte, 64)))
	})
}

func TestGenerate_IndependentPairs(t *testing.T) {
	kp1, err := Generate("")
	require.NoError(t, err)
	kp2, err := Generate("")
	require.NoError(t, err)

	assert.NotEqual(t, kp1.PubKey().Bytes(), kp2.PubKey().Bytes())
	assert.NotEqual(t, kp1.Address(), kp2.Address())
}

func TestFromMnemonic_Deterministic(t *testing.T) {
	kp1, err := FromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	kp2, err := FromMnemonic(testMnemonic, DefaultHDPath)
	require.NoError(t, err)

	assert.Equal(t, kp1.Address(), kp2.Address())
	assert.True(t, strings.HasPrefix(kp1.Address(), "cosmos1"))

	msg := []byte("test message")
	sig1, err := kp1.Sign(msg)
	require.NoError(t, err)
	sig2, err := kp2.Sign(msg)
	require.NoError(t, err)
	assert.Equal(t, sig1, sig2, "Same mnemonic should produce same signatures")

	other, err := FromMnemonic(testMnemonic, "m/44'/330'/0'/0/0")
	require.NoError(t, err)
	assert.NotEqual(t, kp1.Address(), other.Address())
}

func TestFromMnemonic_Errors(t *testing.T) {
	_, err := FromMnemonic("not a valid mnemonic", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)

	_, err = FromMnemonic(testMnemonic, "m/not/a/path")
	assert.ErrorIs(t, err, ErrKeyDerivation)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kp, err := Generate("")
			if err != nil {
				t.Error(err)
				return
			}
			r.Register(fmt.Sprintf("feed-%d", i), kp.PubKey())
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, r.Len())

	first, err := Generate("")
	require.NoError(t, err)
	second, err := Generate("")
	require.NoError(t, err)

	r.Register("feed-0", first.PubKey())
	r.Register("feed-0", second.PubKey())
	got, ok := r.Lookup("feed-0")
	require.True(t, ok)
	assert.Equal(t, second.PubKey().Bytes(), got.Bytes(), "last writer wins")

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}
