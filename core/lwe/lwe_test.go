package lwe

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/lwecore/ring"
	"github.com/tuneinsight/lwecore/utils/logging"
	"github.com/tuneinsight/lwecore/utils/sampling"
)

var flagParamString = flag.String("params", "", "specify the test cryptographic parameters as a JSON string. Overrides the default test parameters.")

var testInsecure = []ParametersLiteral{
	ExampleParameters,
	{
		Dimension:     512,
		NoiseVariance: math.Exp2(-80),
		LogScale:      40,
	},
}

func testString(params Parameters, opname string) string {
	return fmt.Sprintf("%s/d=%d/logSigma=%.2f/logScale=%d",
		opname,
		params.Dimension(),
		params.NoiseLog2(),
		params.LogScale())
}

type TestContext struct {
	params Parameters
	ecd    *Encoder
	eng    *Engine
	sk     *SecretKey
}

func newTestEngine(t testing.TB, key string) *Engine {
	seeder, err := sampling.NewDeterministicSeeder([]byte(key))
	require.NoError(t, err)
	eng, err := NewEngine(seeder)
	require.NoError(t, err)
	eng.SetLogger(logging.Discard())
	return eng
}

func NewTestContext(t testing.TB, params Parameters) (tc *TestContext) {
	eng := newTestEngine(t, "lwe test context")
	sk, err := eng.GenerateSecretKey(params.Dimension())
	require.NoError(t, err)
	return &TestContext{
		params: params,
		ecd:    NewEncoder(params),
		eng:    eng,
		sk:     sk,
	}
}

func TestLWE(t *testing.T) {

	var err error

	defaultParamsLiteral := testInsecure

	if *flagParamString != "" {
		var jsonParams ParametersLiteral
		if err = json.Unmarshal([]byte(*flagParamString), &jsonParams); err != nil {
			t.Fatal(err)
		}
		defaultParamsLiteral = []ParametersLiteral{jsonParams} // the custom test suite reads the parameters from the -params flag
	}

	for _, paramsLit := range defaultParamsLiteral[:] {

		var params Parameters
		if params, err = NewParametersFromLiteral(paramsLit); err != nil {
			t.Fatal(err)
		}

		tc := NewTestContext(t, params)

		for _, testSet := range []func(tc *TestContext, t *testing.T){
			testEncryptDecrypt,
			testMulCleartext,
			testSingleCiphertextOperations,
			testBufferVariants,
			testMarshaller,
		} {
			testSet(tc, t)
		}
	}
}

func testEncryptDecrypt(tc *TestContext, t *testing.T) {

	params := tc.params
	eng := tc.eng

	t.Run(testString(params, "EncryptDecrypt"), func(t *testing.T) {

		ct, err := eng.CreateCiphertext(params.Dimension())
		require.NoError(t, err)

		for _, m := range []uint64{0, 1, 3, 7} {
			require.NoError(t, eng.DiscardEncrypt(tc.sk, ct, tc.ecd.Encode(m), params.NoiseVariance()))

			before := append([]uint64{}, ct.Words()...)

			pt, err := eng.Decrypt(tc.sk, ct)
			require.NoError(t, err)
			require.Equal(t, m, tc.ecd.Decode(pt))

			// Decrypt does not mutate its input
			require.Equal(t, before, ct.Words())
		}

		require.NoError(t, ct.Destroy())
	})

	t.Run(testString(params, "Encrypt/Fresh"), func(t *testing.T) {

		ct0, err := eng.CreateCiphertext(params.Dimension())
		require.NoError(t, err)
		ct1, err := eng.CreateCiphertext(params.Dimension())
		require.NoError(t, err)

		require.NoError(t, eng.DiscardEncrypt(tc.sk, ct0, 0, params.NoiseVariance()))
		require.NoError(t, eng.DiscardEncrypt(tc.sk, ct1, 0, params.NoiseVariance()))

		// Two encryptions consume different randomness
		require.False(t, ct0.Equal(ct1))
	})
}

func testMulCleartext(tc *TestContext, t *testing.T) {

	params := tc.params
	eng := tc.eng

	t.Run(testString(params, "MulCleartext"), func(t *testing.T) {

		prng, err := sampling.NewKeyedPRNG([]byte("mul cleartext"))
		require.NoError(t, err)
		source := sampling.NewSource(prng)

		maxScalar := params.MaxCleartext(DefaultNoiseBoundFactor)

		ct, err := eng.CreateCiphertext(params.Dimension())
		require.NoError(t, err)

		res, err := eng.CreateCiphertext(params.Dimension())
		require.NoError(t, err)

		for k := 0; k < 16; k++ {

			p := source.Uint64() & 0xff
			s := source.Uint64() % (maxScalar + 1)
			if s > 0xff {
				s &= 0xff
			}

			require.NoError(t, eng.DiscardEncrypt(tc.sk, ct, tc.ecd.Encode(p), params.NoiseVariance()))

			// prior content of res is garbage and must not be read
			for i := range res.Words() {
				res.Set(i, source.Uint64())
			}

			require.NoError(t, eng.DiscardMulCleartext(res, ct, s))

			for i := 0; i < params.Dimension()+1; i++ {
				require.Equal(t, ct.At(i)*s, res.At(i))
			}

			pt, err := eng.Decrypt(tc.sk, res)
			require.NoError(t, err)
			require.Equal(t, (p*s)&(math.MaxUint64>>params.LogScale()), tc.ecd.Decode(pt))
		}
	})

	t.Run(testString(params, "MulCleartext/InPlace"), func(t *testing.T) {

		ct, err := eng.CreateCiphertext(params.Dimension())
		require.NoError(t, err)

		require.NoError(t, eng.DiscardEncrypt(tc.sk, ct, tc.ecd.Encode(5), params.NoiseVariance()))

		want := append([]uint64{}, ct.Words()...)
		ring.MulScalarVec(want, 3, want)

		require.NoError(t, eng.DiscardMulCleartext(ct, ct, 3))
		require.Equal(t, want, ct.Words())

		pt, err := eng.Decrypt(tc.sk, ct)
		require.NoError(t, err)
		require.Equal(t, uint64(15), tc.ecd.Decode(pt))
	})

	t.Run(testString(params, "MulCleartext/Identities"), func(t *testing.T) {

		ct, err := eng.CreateCiphertext(params.Dimension())
		require.NoError(t, err)
		res, err := eng.CreateCiphertext(params.Dimension())
		require.NoError(t, err)

		require.NoError(t, eng.DiscardEncrypt(tc.sk, ct, tc.ecd.Encode(9), params.NoiseVariance()))

		require.NoError(t, eng.DiscardMulCleartext(res, ct, 1))
		require.True(t, res.Equal(ct))

		require.NoError(t, eng.DiscardMulCleartext(res, ct, 0))
		for i := 0; i < params.Dimension()+1; i++ {
			require.Zero(t, res.At(i))
		}

		pt, err := eng.Decrypt(tc.sk, res)
		require.NoError(t, err)
		require.Zero(t, pt)
	})
}

func testSingleCiphertextOperations(tc *TestContext, t *testing.T) {

	params := tc.params
	eng := tc.eng
	ecd := tc.ecd

	ct, err := eng.CreateCiphertext(params.Dimension())
	require.NoError(t, err)
	require.NoError(t, eng.DiscardEncrypt(tc.sk, ct, ecd.Encode(6), params.NoiseVariance()))

	res, err := eng.CreateCiphertext(params.Dimension())
	require.NoError(t, err)

	decode := func(t *testing.T) uint64 {
		pt, err := eng.Decrypt(tc.sk, res)
		require.NoError(t, err)
		return ecd.Decode(pt)
	}

	t.Run(testString(params, "AddPlaintext"), func(t *testing.T) {
		require.NoError(t, eng.DiscardAddPlaintext(res, ct, ecd.Encode(4)))
		require.Equal(t, uint64(10), decode(t))
	})

	t.Run(testString(params, "Opposite"), func(t *testing.T) {
		require.NoError(t, eng.DiscardOpposite(res, ct))
		require.Equal(t, ecd.Decode(-ecd.Encode(6)), decode(t))
	})

	t.Run(testString(params, "TrivialEncrypt"), func(t *testing.T) {
		require.NoError(t, eng.DiscardTrivialEncrypt(res, ecd.Encode(11)))
		for i := 0; i < params.Dimension(); i++ {
			require.Zero(t, res.At(i))
		}
		require.Equal(t, ecd.Encode(11), res.Body())
		require.Equal(t, uint64(11), decode(t))
	})

	t.Run(testString(params, "Copy"), func(t *testing.T) {
		require.NoError(t, eng.DiscardCopy(res, ct))
		require.True(t, res.Equal(ct))
		require.Equal(t, uint64(6), decode(t))
	})
}

func testBufferVariants(tc *TestContext, t *testing.T) {

	params := tc.params
	d := params.Dimension()
	pt := tc.ecd.Encode(3)
	variance := params.NoiseVariance()

	// Each variant runs on a fresh engine with the same seed so that the
	// results must be identical word for word.
	type variant struct {
		name string
		run  func(t *testing.T, eng *Engine, sk *SecretKey) []uint64
	}

	variants := []variant{
		{"Owned", func(t *testing.T, eng *Engine, sk *SecretKey) []uint64 {
			ct, err := eng.CreateCiphertext(d)
			require.NoError(t, err)
			res, err := eng.CreateCiphertext(d)
			require.NoError(t, err)
			require.NoError(t, eng.DiscardEncrypt(sk, ct, pt, variance))
			require.NoError(t, eng.DiscardMulCleartext(res, ct, 7))
			return res.Words()
		}},
		{"View", func(t *testing.T, eng *Engine, sk *SecretKey) []uint64 {
			in := make([]uint64, d+1)
			out := make([]uint64, d+1)
			inMut, err := eng.CreateCiphertextMutView(in)
			require.NoError(t, err)
			require.NoError(t, eng.DiscardEncrypt(sk, inMut, pt, variance))
			inView, err := eng.CreateCiphertextView(in)
			require.NoError(t, err)
			outMut, err := eng.CreateCiphertextMutView(out)
			require.NoError(t, err)
			require.NoError(t, eng.DiscardMulCleartext(outMut, inView, 7))
			require.NoError(t, inView.Destroy())
			require.NoError(t, outMut.Destroy())
			return out
		}},
		{"ViewFromPointer", func(t *testing.T, eng *Engine, sk *SecretKey) []uint64 {
			in := make([]uint64, d+1)
			out := make([]uint64, d+1)
			inMut, err := eng.CreateCiphertextMutViewFromPointer(unsafe.Pointer(&in[0]), d+1)
			require.NoError(t, err)
			require.NoError(t, eng.DiscardEncrypt(sk, inMut, pt, variance))
			inView, err := eng.CreateCiphertextViewFromPointer(unsafe.Pointer(&in[0]), d+1)
			require.NoError(t, err)
			outMut, err := eng.CreateCiphertextMutViewFromPointer(unsafe.Pointer(&out[0]), d+1)
			require.NoError(t, err)
			require.NoError(t, eng.DiscardMulCleartext(outMut, inView, 7))
			return out
		}},
		{"Raw", func(t *testing.T, eng *Engine, sk *SecretKey) []uint64 {
			in := make([]uint64, d+1)
			out := make([]uint64, d+1)
			require.NoError(t, eng.DiscardEncryptRaw(sk, unsafe.Pointer(&in[0]), pt, variance))
			require.NoError(t, eng.DiscardMulCleartextRaw(unsafe.Pointer(&out[0]), unsafe.Pointer(&in[0]), d, 7))
			return out
		}},
		{"Unchecked/Owned", func(t *testing.T, eng *Engine, sk *SecretKey) []uint64 {
			u := eng.Unchecked()
			ct := u.CreateCiphertext(d)
			res := u.CreateCiphertext(d)
			u.DiscardEncrypt(sk, ct, pt, variance)
			u.DiscardMulCleartext(res, ct, 7)
			return res.Words()
		}},
		{"Unchecked/View", func(t *testing.T, eng *Engine, sk *SecretKey) []uint64 {
			u := eng.Unchecked()
			in := make([]uint64, d+1)
			out := make([]uint64, d+1)
			u.DiscardEncrypt(sk, u.CreateCiphertextMutView(in), pt, variance)
			u.DiscardMulCleartext(u.CreateCiphertextMutView(out), u.CreateCiphertextView(in), 7)
			return out
		}},
		{"Unchecked/Raw", func(t *testing.T, eng *Engine, sk *SecretKey) []uint64 {
			u := eng.Unchecked()
			in := make([]uint64, d+1)
			out := make([]uint64, d+1)
			u.DiscardEncryptRaw(sk, unsafe.Pointer(&in[0]), pt, variance)
			u.DiscardMulCleartextRaw(unsafe.Pointer(&out[0]), unsafe.Pointer(&in[0]), d, 7)
			return out
		}},
	}

	var want []uint64
	for k, v := range variants {
		t.Run(testString(params, "BufferVariants/"+v.name), func(t *testing.T) {
			eng := newTestEngine(t, "buffer variants")
			sk, err := eng.GenerateSecretKey(d)
			require.NoError(t, err)

			have := v.run(t, eng, sk)

			if k == 0 {
				want = have
			} else {
				require.Equal(t, want, have)
			}

			m, err := eng.DecryptRaw(sk, unsafe.Pointer(&have[0]))
			require.NoError(t, err)
			require.Equal(t, m, eng.Unchecked().DecryptRaw(sk, unsafe.Pointer(&have[0])))
			require.Equal(t, uint64(21)&(math.MaxUint64>>params.LogScale()), tc.ecd.Decode(m))
		})
	}

	t.Run(testString(params, "BufferVariants/SingleCiphertextRaw"), func(t *testing.T) {
		eng := tc.eng
		u := eng.Unchecked()

		in := make([]uint64, d+1)
		require.NoError(t, eng.DiscardEncryptRaw(tc.sk, unsafe.Pointer(&in[0]), tc.ecd.Encode(2), variance))
		pin := unsafe.Pointer(&in[0])

		checked := make([]uint64, d+1)
		unchecked := make([]uint64, d+1)
		pc, pu := unsafe.Pointer(&checked[0]), unsafe.Pointer(&unchecked[0])

		require.NoError(t, eng.DiscardAddPlaintextRaw(pc, pin, d, tc.ecd.Encode(1)))
		u.DiscardAddPlaintextRaw(pu, pin, d, tc.ecd.Encode(1))
		require.Equal(t, checked, unchecked)

		require.NoError(t, eng.DiscardOppositeRaw(pc, pin, d))
		u.DiscardOppositeRaw(pu, pin, d)
		require.Equal(t, checked, unchecked)

		require.NoError(t, eng.DiscardCopyRaw(pc, pin, d))
		u.DiscardCopyRaw(pu, pin, d)
		require.Equal(t, in, checked)
		require.Equal(t, in, unchecked)

		require.NoError(t, eng.DiscardTrivialEncryptRaw(pc, d, tc.ecd.Encode(2)))
		u.DiscardTrivialEncryptRaw(pu, d, tc.ecd.Encode(2))
		require.Equal(t, checked, unchecked)
		require.Equal(t, tc.ecd.Encode(2), checked[d])
	})
}

func testMarshaller(tc *TestContext, t *testing.T) {

	params := tc.params
	eng := tc.eng

	t.Run(testString(params, "Marshaller/Ciphertext"), func(t *testing.T) {

		ct, err := eng.CreateCiphertext(params.Dimension())
		require.NoError(t, err)
		require.NoError(t, eng.DiscardEncrypt(tc.sk, ct, tc.ecd.Encode(1), params.NoiseVariance()))

		data, err := ct.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, data, ct.BinarySize())

		ctNew, err := eng.UnmarshalCiphertext(data)
		require.NoError(t, err)
		require.True(t, ct.Equal(ctNew))

		view, err := eng.CreateCiphertextView(ct.Words())
		require.NoError(t, err)
		viewData, err := view.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, data, viewData)
	})

	t.Run(testString(params, "Marshaller/SecretKey"), func(t *testing.T) {

		data, err := tc.sk.MarshalBinary()
		require.NoError(t, err)

		sk, err := eng.UnmarshalSecretKey(data)
		require.NoError(t, err)
		require.True(t, tc.sk.Equal(sk))

		ct, err := eng.CreateCiphertext(params.Dimension())
		require.NoError(t, err)
		require.NoError(t, eng.DiscardEncrypt(tc.sk, ct, tc.ecd.Encode(2), params.NoiseVariance()))

		pt, err := eng.Decrypt(sk, ct)
		require.NoError(t, err)
		require.Equal(t, uint64(2), tc.ecd.Decode(pt))
	})
}

// TestCleartextMultiplication runs the reference scenario: a dimension 10
// ciphertext of 2^61 multiplied by 3 through every buffer variant.
func TestCleartextMultiplication(t *testing.T) {

	const (
		dimension = 10
		variance  = 1e-9
		shift     = 60
		scalar    = 3
	)

	plaintext := uint64(2) << shift
	expected := plaintext * scalar

	relativeError := func(have uint64) float64 {
		return math.Abs(float64(int64(have-expected))) / float64(expected)
	}

	newEngine := func(t *testing.T) (*Engine, *SecretKey) {
		seeder, err := sampling.BestAvailableSeeder()
		require.NoError(t, err)
		eng, err := NewEngine(seeder)
		require.NoError(t, err)
		sk, err := eng.GenerateSecretKey(dimension)
		require.NoError(t, err)
		return eng, sk
	}

	t.Run("View", func(t *testing.T) {
		eng, sk := newEngine(t)

		in := make([]uint64, dimension+1)
		out := make([]uint64, dimension+1)

		inMut, err := eng.CreateCiphertextMutView(in)
		require.NoError(t, err)
		require.NoError(t, eng.DiscardEncrypt(sk, inMut, plaintext, variance))

		inView, err := eng.CreateCiphertextView(in)
		require.NoError(t, err)
		outMut, err := eng.CreateCiphertextMutView(out)
		require.NoError(t, err)
		require.NoError(t, eng.DiscardMulCleartext(outMut, inView, scalar))

		outView, err := eng.CreateCiphertextView(out)
		require.NoError(t, err)
		have, err := eng.Decrypt(sk, outView)
		require.NoError(t, err)
		require.Less(t, relativeError(have), 0.001)

		for _, obj := range []interface{ Destroy() error }{inMut, inView, outMut, outView, sk} {
			require.NoError(t, obj.Destroy())
		}
		require.Zero(t, eng.LiveObjects())
		require.NoError(t, eng.Destroy())
	})

	t.Run("Unchecked/View", func(t *testing.T) {
		eng, sk := newEngine(t)
		u := eng.Unchecked()

		in := make([]uint64, dimension+1)
		out := make([]uint64, dimension+1)

		u.DiscardEncrypt(sk, u.CreateCiphertextMutView(in), plaintext, variance)
		u.DiscardMulCleartext(u.CreateCiphertextMutView(out), u.CreateCiphertextView(in), scalar)

		require.Less(t, relativeError(u.Decrypt(sk, u.CreateCiphertextView(out))), 0.001)
	})

	t.Run("Raw", func(t *testing.T) {
		eng, sk := newEngine(t)

		in := make([]uint64, dimension+1)
		out := make([]uint64, dimension+1)

		require.NoError(t, eng.DiscardEncryptRaw(sk, unsafe.Pointer(&in[0]), plaintext, variance))
		require.NoError(t, eng.DiscardMulCleartextRaw(unsafe.Pointer(&out[0]), unsafe.Pointer(&in[0]), dimension, scalar))

		have, err := eng.DecryptRaw(sk, unsafe.Pointer(&out[0]))
		require.NoError(t, err)
		require.Less(t, relativeError(have), 0.001)
	})

	t.Run("Unchecked/Raw", func(t *testing.T) {
		eng, sk := newEngine(t)
		u := eng.Unchecked()

		in := make([]uint64, dimension+1)
		out := make([]uint64, dimension+1)

		u.DiscardEncryptRaw(sk, unsafe.Pointer(&in[0]), plaintext, variance)
		u.DiscardMulCleartextRaw(unsafe.Pointer(&out[0]), unsafe.Pointer(&in[0]), dimension, scalar)

		require.Less(t, relativeError(u.DecryptRaw(sk, unsafe.Pointer(&out[0]))), 0.001)
	})
}
