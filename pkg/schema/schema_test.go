package schema

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Mihail-K/Dart/pkg/value"
)

type testUser struct {
	ID    int64   `dart:"id,auto"`
	Name  string  `dart:"column,maxLength=50"`
	Email *string `dart:"column=email_address,nullable"`
	Age   int     `dart:"column=age"`

	Internal string
}

func (testUser) TableName() string { return "users" }

type plainEntity struct {
	Key  string `dart:"id"`
	Body string `dart:"column"`
}

func TestLookup_DerivesMetadata(t *testing.T) {
	meta, err := Of[testUser]()
	require.NoError(t, err)

	assert.Equal(t, "users", meta.Table)
	assert.Equal(t, "ID", meta.ID)
	assert.Equal(t, 4, meta.Len(), "one column per tagged field")
	assert.Equal(t, []string{"ID", "Name", "email_address", "age"}, meta.Columns(),
		"columns follow field declaration order")

	id := meta.Identity()
	require.NotNil(t, id)
	assert.True(t, id.IsID)
	assert.True(t, id.AutoIncrement)

	name, ok := meta.Column("Name")
	require.True(t, ok)
	assert.Equal(t, 50, name.MaxLength)
	assert.True(t, name.NotNull)

	email, ok := meta.Column("email_address")
	require.True(t, ok)
	assert.False(t, email.NotNull)
	assert.Equal(t, "Email", email.Field)

	_, ok = meta.Column("Internal")
	assert.False(t, ok, "untagged fields are not columns")
}

func TestLookup_DefaultTableName(t *testing.T) {
	meta, err := Of[plainEntity]()
	require.NoError(t, err)
	assert.Equal(t, "plainEntity", meta.Table)
}

func TestLookup_PointerAndValueShareEntry(t *testing.T) {
	byValue, err := Of[testUser]()
	require.NoError(t, err)
	byPointer, err := Lookup(reflect.TypeOf(&testUser{}))
	require.NoError(t, err)
	assert.Same(t, byValue, byPointer)
}

func TestLookup_DefinitionErrors(t *testing.T) {
	type twoIdentities struct {
		A int `dart:"id"`
		B int `dart:"id"`
	}
	type noColumns struct {
		A int
		B string
	}
	type noIdentity struct {
		A int `dart:"column"`
	}
	type callableColumn struct {
		A  int    `dart:"id"`
		Fn func() `dart:"column"`
	}
	type autoOnString struct {
		A string `dart:"id,auto"`
	}
	type autoOffIdentity struct {
		A int `dart:"id"`
		B int `dart:"column,auto"`
	}
	type badOption struct {
		A int `dart:"id,primary"`
	}
	type markerWithoutColumn struct {
		A int `dart:"id"`
		B int `dart:"nullable"`
	}

	tests := []struct {
		name    string
		typ     reflect.Type
		wantMsg string
	}{
		{name: "duplicate identity", typ: reflect.TypeOf(twoIdentities{}), wantMsg: "duplicate identity column"},
		{name: "zero columns", typ: reflect.TypeOf(noColumns{}), wantMsg: "declares no columns"},
		{name: "missing identity", typ: reflect.TypeOf(noIdentity{}), wantMsg: "declares no identity column"},
		{name: "callable column", typ: reflect.TypeOf(callableColumn{}), wantMsg: "callable"},
		{name: "auto-increment on non-numeric", typ: reflect.TypeOf(autoOnString{}), wantMsg: "requires a numeric field"},
		{name: "auto-increment off identity", typ: reflect.TypeOf(autoOffIdentity{}), wantMsg: "only valid on the identity column"},
		{name: "unknown tag option", typ: reflect.TypeOf(badOption{}), wantMsg: "unknown tag option"},
		{name: "marker without column", typ: reflect.TypeOf(markerWithoutColumn{}), wantMsg: "no column or id marker"},
		{name: "non-struct type", typ: reflect.TypeOf(42), wantMsg: "must be a struct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lookup(tt.typ)
			require.Error(t, err)

			var defErr *DefinitionError
			require.ErrorAs(t, err, &defErr)
			assert.Contains(t, defErr.Message, tt.wantMsg)
		})
	}
}

func TestLookup_ErrorIsSticky(t *testing.T) {
	type broken struct {
		A int `dart:"id"`
		B int `dart:"id"`
	}
	_, err1 := Of[broken]()
	_, err2 := Of[broken]()
	require.Error(t, err1)
	assert.Equal(t, err1, err2)
}

func TestLookup_ConcurrentFirstUse(t *testing.T) {
	type concurrent struct {
		ID   int64  `dart:"id,auto"`
		Name string `dart:"column"`
	}

	var (
		mu    sync.Mutex
		metas []*Metadata
	)
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			meta, err := Of[concurrent]()
			if err != nil {
				return err
			}
			mu.Lock()
			metas = append(metas, meta)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Len(t, metas, 16)
	for _, m := range metas {
		assert.Same(t, metas[0], m, "derivation must run exactly once per type")
	}
}

func TestColumn_Read(t *testing.T) {
	meta, err := Of[testUser]()
	require.NoError(t, err)

	t.Run("reads field value", func(t *testing.T) {
		col, _ := meta.Column("Name")
		v, err := col.Read(&testUser{Name: "Ada"})
		require.NoError(t, err)
		s, err := v.AsString()
		require.NoError(t, err)
		assert.Equal(t, "Ada", s)
	})

	t.Run("nullable column allows nil", func(t *testing.T) {
		col, _ := meta.Column("email_address")
		v, err := col.Read(&testUser{})
		require.NoError(t, err)
		assert.True(t, v.IsNull())
	})

	t.Run("auto-increment identity allows unset value", func(t *testing.T) {
		col := meta.Identity()
		_, err := col.Read(&testUser{})
		assert.NoError(t, err)
	})

	t.Run("max length enforced", func(t *testing.T) {
		col, _ := meta.Column("Name")
		long := make([]byte, 51)
		for i := range long {
			long[i] = 'x'
		}
		_, err := col.Read(&testUser{Name: string(long)})
		require.Error(t, err)

		var cerr *ConstraintError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Name", cerr.Column)
		assert.Contains(t, cerr.Message, "exceeds maximum 50")
	})

	t.Run("not-null enforced on nil-able field", func(t *testing.T) {
		type doc struct {
			ID   int64   `dart:"id"`
			Body *string `dart:"column"`
		}
		meta, err := Of[doc]()
		require.NoError(t, err)

		col, _ := meta.Column("Body")
		_, err = col.Read(&doc{})
		require.Error(t, err)

		var cerr *ConstraintError
		require.ErrorAs(t, err, &cerr)
		assert.Contains(t, cerr.Message, "null value in not-null column")
	})
}

func TestColumn_Write(t *testing.T) {
	meta, err := Of[testUser]()
	require.NoError(t, err)

	t.Run("writes coerced value", func(t *testing.T) {
		u := &testUser{}
		col := meta.Identity()
		require.NoError(t, col.Write(u, value.Int(7)))
		assert.Equal(t, int64(7), u.ID)
	})

	t.Run("string parses into numeric field", func(t *testing.T) {
		u := &testUser{}
		col, _ := meta.Column("age")
		require.NoError(t, col.Write(u, value.String("30")))
		assert.Equal(t, 30, u.Age)
	})

	t.Run("null clears pointer field", func(t *testing.T) {
		email := "a@x.com"
		u := &testUser{Email: &email}
		col, _ := meta.Column("email_address")
		require.NoError(t, col.Write(u, value.Null()))
		assert.Nil(t, u.Email)
	})

	t.Run("value fills pointer field", func(t *testing.T) {
		u := &testUser{}
		col, _ := meta.Column("email_address")
		require.NoError(t, col.Write(u, value.String("a@x.com")))
		require.NotNil(t, u.Email)
		assert.Equal(t, "a@x.com", *u.Email)
	})

	t.Run("generic value field passes through", func(t *testing.T) {
		type bag struct {
			ID  int64       `dart:"id"`
			Any value.Value `dart:"column"`
		}
		meta, err := Of[bag]()
		require.NoError(t, err)

		b := &bag{}
		col, _ := meta.Column("Any")
		require.NoError(t, col.Write(b, value.String("raw")))
		assert.Equal(t, value.KindString, b.Any.Kind())
	})

	t.Run("incompatible value rejected", func(t *testing.T) {
		u := &testUser{}
		col, _ := meta.Column("age")
		err := col.Write(u, value.String("not a number"))
		assert.Error(t, err)
	})
}
