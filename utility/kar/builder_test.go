// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestAddAndWrite(t *testing.T) {
	builder, err := NewBuilder(Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer builder.Close()

	builder.Add("test", strings.NewReader("idunvovkjnreovmegihjbrqlkmfrjnb"))
	builder.Add("test2", strings.NewReader("idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"))

	if len(builder.files) != 2 {
		t.Error("incorrect number of files present")
	}

	buf := bytes.NewBuffer([]byte{})
	num, err := builder.WriteTo(buf)
	if err != nil {
		t.Error(err)
	}
	t.Logf("written %d \n", num)

	if !bytes.HasPrefix(buf.Bytes(), Magic[:]) {
		t.Error("archive does not start with magic")
	}
	if len(builder.files) != 0 {
		t.Error("builder not emptied after WriteTo")
	}
}

func TestAddConcurrently(t *testing.T) {
	builder, err := NewBuilder(Header{Author: "devblok"})
	if err != nil {
		t.Fatal(err)
	}
	defer builder.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := builder.Add(strings.Repeat("x", i+1), strings.NewReader("data")); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	if builder.Len() != 8 {
		t.Errorf("incorrect number of files present: %d", builder.Len())
	}
}

func TestCloseRemovesTemp(t *testing.T) {
	builder, err := NewBuilder(Header{})
	if err != nil {
		t.Fatal(err)
	}
	builder.Add("test", strings.NewReader("data"))
	if err := builder.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(builder.tempDir); !os.IsNotExist(err) {
		t.Errorf("temporary dir still present: %v", err)
	}
}
