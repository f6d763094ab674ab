// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package summaries

// stdAccess maps the names of standard library packages to the map of predefined access rows for the package.
// This also serves as the reference list of packages the analyses do not descend into.
// Each of the inner maps goes from the function string (function.String()) to its row. A nil inner map means
// the package is recognized but carries no rows: every pointer passed to it is assumed modified.
//
// Only parameters that carry an address matter to the access analysis, so the rows concentrate on
// pointer-receiver methods and functions taking explicit pointers. Columns for slices, maps, channels,
// interfaces and function values are NoEffect placeholders that keep the rows aligned with the signatures.
var stdAccess = map[string]map[string]AccessSummary{
	"archive/tar":     nil,
	"archive/zip":     nil,
	"bufio":           accessBufio,
	"builtin":         nil,
	"bytes":           accessBytes,
	"compress/flate":  nil,
	"compress/gzip":   nil,
	"compress/zlib":   nil,
	"container/heap":  nil,
	"container/list":  accessContainerList,
	"context":         nil,
	"crypto":          nil,
	"crypto/rand":     nil,
	"crypto/sha256":   nil,
	"crypto/tls":      nil,
	"crypto/x509":     nil,
	"database/sql":    nil,
	"embed":           nil,
	"encoding":        nil,
	"encoding/base64": nil,
	"encoding/binary": nil,
	"encoding/csv":    nil,
	"encoding/gob":    nil,
	"encoding/json":   accessEncodingJSON,
	"encoding/xml":    nil,
	"errors":          accessErrors,
	"expvar":          nil,
	"flag":            nil,
	"fmt":             accessFmt,
	"hash":            nil,
	"hash/crc32":      nil,
	"hash/fnv":        nil,
	"hash/maphash":    nil,
	"html":            nil,
	"html/template":   nil,
	"io":              nil,
	"io/fs":           nil,
	"io/ioutil":       nil,
	"log":             accessLog,
	"math":            nil,
	"math/big":        accessMathBig,
	"math/bits":       nil,
	"math/rand":       accessMathRand,
	"mime":            nil,
	"net":             nil,
	"net/http":        nil,
	"net/url":         nil,
	"os":              accessOs,
	"os/exec":         nil,
	"os/signal":       nil,
	"os/user":         nil,
	"path":            nil,
	"path/filepath":   nil,
	"reflect":         nil,
	"regexp":          accessRegexp,
	"sort":            nil,
	"strconv":         nil,
	"strings":         accessStrings,
	"sync":            accessSync,
	"sync/atomic":     accessSyncAtomic,
	"syscall":         nil,
	"testing":         nil,
	"time":            accessTime,
	"unicode":         nil,
	"unicode/utf8":    nil,
	"unsafe":          nil,
}

// accessSync: every method moves the synchronization state held behind the receiver.
var accessSync = map[string]AccessSummary{
	"(*sync.Mutex).Lock":       row(MutatesPointee),
	"(*sync.Mutex).TryLock":    row(MutatesPointee),
	"(*sync.Mutex).Unlock":     row(MutatesPointee),
	"(*sync.RWMutex).Lock":     row(MutatesPointee),
	"(*sync.RWMutex).RLock":    row(MutatesPointee),
	"(*sync.RWMutex).RUnlock":  row(MutatesPointee),
	"(*sync.RWMutex).TryLock":  row(MutatesPointee),
	"(*sync.RWMutex).TryRLock": row(MutatesPointee),
	"(*sync.RWMutex).Unlock":   row(MutatesPointee),
	"(*sync.WaitGroup).Add":    row(MutatesPointee, NoEffect),
	"(*sync.WaitGroup).Done":   row(MutatesPointee),
	"(*sync.WaitGroup).Wait":   row(MutatesPointee),
	"(*sync.Once).Do":          row(MutatesPointee, NoEffect),
	"(*sync.Map).Delete":       row(MutatesPointee, NoEffect),
	"(*sync.Map).Load":         row(ReadsPointee, NoEffect),
	"(*sync.Map).LoadOrStore":  row(MutatesPointee, NoEffect, NoEffect),
	"(*sync.Map).Range":        row(ReadsPointee, NoEffect),
	"(*sync.Map).Store":        row(MutatesPointee, NoEffect, NoEffect),
	"(*sync.Pool).Get":         row(MutatesPointee),
	"(*sync.Pool).Put":         row(MutatesPointee, NoEffect),
	"(*sync.Cond).Broadcast":   row(MutatesPointee),
	"(*sync.Cond).Signal":      row(MutatesPointee),
	"(*sync.Cond).Wait":        row(MutatesPointee),
}

var accessSyncAtomic = map[string]AccessSummary{
	"sync/atomic.AddInt32":              row(MutatesPointee, NoEffect),
	"sync/atomic.AddInt64":              row(MutatesPointee, NoEffect),
	"sync/atomic.AddUint32":             row(MutatesPointee, NoEffect),
	"sync/atomic.AddUint64":             row(MutatesPointee, NoEffect),
	"sync/atomic.AddUintptr":            row(MutatesPointee, NoEffect),
	"sync/atomic.CompareAndSwapInt32":   row(MutatesPointee, NoEffect, NoEffect),
	"sync/atomic.CompareAndSwapInt64":   row(MutatesPointee, NoEffect, NoEffect),
	"sync/atomic.CompareAndSwapPointer": row(MutatesPointee, NoEffect, NoEffect),
	"sync/atomic.CompareAndSwapUint32":  row(MutatesPointee, NoEffect, NoEffect),
	"sync/atomic.CompareAndSwapUint64":  row(MutatesPointee, NoEffect, NoEffect),
	"sync/atomic.LoadInt32":             row(ReadsPointee),
	"sync/atomic.LoadInt64":             row(ReadsPointee),
	"sync/atomic.LoadPointer":           row(ReadsPointee),
	"sync/atomic.LoadUint32":            row(ReadsPointee),
	"sync/atomic.LoadUint64":            row(ReadsPointee),
	"sync/atomic.StoreInt32":            row(MutatesPointee, NoEffect),
	"sync/atomic.StoreInt64":            row(MutatesPointee, NoEffect),
	"sync/atomic.StorePointer":          row(MutatesPointee, NoEffect),
	"sync/atomic.StoreUint32":           row(MutatesPointee, NoEffect),
	"sync/atomic.StoreUint64":           row(MutatesPointee, NoEffect),
	"sync/atomic.SwapInt32":             row(MutatesPointee, NoEffect),
	"sync/atomic.SwapInt64":             row(MutatesPointee, NoEffect),
	"(*sync/atomic.Bool).Load":          row(ReadsPointee),
	"(*sync/atomic.Bool).Store":         row(MutatesPointee, NoEffect),
	"(*sync/atomic.Int32).Add":          row(MutatesPointee, NoEffect),
	"(*sync/atomic.Int32).Load":         row(ReadsPointee),
	"(*sync/atomic.Int32).Store":        row(MutatesPointee, NoEffect),
	"(*sync/atomic.Int64).Add":          row(MutatesPointee, NoEffect),
	"(*sync/atomic.Int64).Load":         row(ReadsPointee),
	"(*sync/atomic.Int64).Store":        row(MutatesPointee, NoEffect),
	"(*sync/atomic.Value).Load":         row(ReadsPointee),
	"(*sync/atomic.Value).Store":        row(MutatesPointee, NoEffect),
}

var accessBytes = map[string]AccessSummary{
	"(*bytes.Buffer).Bytes":       row(ReadsPointee),
	"(*bytes.Buffer).Cap":         row(ReadsPointee),
	"(*bytes.Buffer).Grow":        row(MutatesPointee, NoEffect),
	"(*bytes.Buffer).Len":         row(ReadsPointee),
	"(*bytes.Buffer).Next":        row(MutatesPointee, NoEffect),
	"(*bytes.Buffer).Read":        row(MutatesPointee, NoEffect),
	"(*bytes.Buffer).ReadByte":    row(MutatesPointee),
	"(*bytes.Buffer).ReadString":  row(MutatesPointee, NoEffect),
	"(*bytes.Buffer).Reset":       row(MutatesPointee),
	"(*bytes.Buffer).String":      row(ReadsPointee),
	"(*bytes.Buffer).Truncate":    row(MutatesPointee, NoEffect),
	"(*bytes.Buffer).Write":       row(MutatesPointee, NoEffect),
	"(*bytes.Buffer).WriteByte":   row(MutatesPointee, NoEffect),
	"(*bytes.Buffer).WriteRune":   row(MutatesPointee, NoEffect),
	"(*bytes.Buffer).WriteString": row(MutatesPointee, NoEffect),
	"(*bytes.Buffer).WriteTo":     row(MutatesPointee, NoEffect),
	"(*bytes.Reader).Len":         row(ReadsPointee),
	"(*bytes.Reader).Read":        row(MutatesPointee, NoEffect),
	"(*bytes.Reader).Reset":       row(MutatesPointee, NoEffect),
	"(*bytes.Reader).Seek":        row(MutatesPointee, NoEffect, NoEffect),
}

var accessStrings = map[string]AccessSummary{
	"(*strings.Builder).Cap":         row(ReadsPointee),
	"(*strings.Builder).Grow":        row(MutatesPointee, NoEffect),
	"(*strings.Builder).Len":         row(ReadsPointee),
	"(*strings.Builder).Reset":       row(MutatesPointee),
	"(*strings.Builder).String":      row(ReadsPointee),
	"(*strings.Builder).Write":       row(MutatesPointee, NoEffect),
	"(*strings.Builder).WriteByte":   row(MutatesPointee, NoEffect),
	"(*strings.Builder).WriteRune":   row(MutatesPointee, NoEffect),
	"(*strings.Builder).WriteString": row(MutatesPointee, NoEffect),
	"(*strings.Reader).Len":          row(ReadsPointee),
	"(*strings.Reader).Read":         row(MutatesPointee, NoEffect),
	"(*strings.Reader).Reset":        row(MutatesPointee, NoEffect),
	"(*strings.Replacer).Replace":    row(ReadsPointee, NoEffect),
}

var accessBufio = map[string]AccessSummary{
	"(*bufio.Reader).Peek":       row(MutatesPointee, NoEffect),
	"(*bufio.Reader).Read":       row(MutatesPointee, NoEffect),
	"(*bufio.Reader).ReadByte":   row(MutatesPointee),
	"(*bufio.Reader).ReadString": row(MutatesPointee, NoEffect),
	"(*bufio.Reader).Reset":      row(MutatesPointee, NoEffect),
	"(*bufio.Scanner).Bytes":     row(ReadsPointee),
	"(*bufio.Scanner).Err":       row(ReadsPointee),
	"(*bufio.Scanner).Scan":      row(MutatesPointee),
	"(*bufio.Scanner).Text":      row(ReadsPointee),
	"(*bufio.Writer).Flush":      row(MutatesPointee),
	"(*bufio.Writer).Write":      row(MutatesPointee, NoEffect),
	"(*bufio.Writer).WriteByte":  row(MutatesPointee, NoEffect),
}

var accessContainerList = map[string]AccessSummary{
	"(*container/list.Element).Next":   row(ReadsPointee),
	"(*container/list.Element).Prev":   row(ReadsPointee),
	"(*container/list.List).Back":      row(ReadsPointee),
	"(*container/list.List).Front":     row(ReadsPointee),
	"(*container/list.List).Init":      row(MutatesPointee),
	"(*container/list.List).Len":       row(ReadsPointee),
	"(*container/list.List).PushBack":  row(MutatesPointee, NoEffect),
	"(*container/list.List).PushFront": row(MutatesPointee, NoEffect),
	"(*container/list.List).Remove":    row(MutatesPointee, MutatesPointee),
}

var accessEncodingJSON = map[string]AccessSummary{
	"(*encoding/json.Decoder).Decode":    row(MutatesPointee, NoEffect),
	"(*encoding/json.Decoder).More":      row(MutatesPointee),
	"(*encoding/json.Decoder).UseNumber": row(MutatesPointee),
	"(*encoding/json.Encoder).Encode":    row(MutatesPointee, NoEffect),
}

var accessErrors = map[string]AccessSummary{
	"errors.As": row(NoEffect, NoEffect),
	"errors.Is": row(NoEffect, NoEffect),
}

var accessFmt = map[string]AccessSummary{
	"fmt.Errorf":  row(NoEffect),
	"fmt.Fprintf": row(NoEffect, NoEffect),
	"fmt.Printf":  row(NoEffect),
	"fmt.Sprintf": row(NoEffect),
}

var accessLog = map[string]AccessSummary{
	"(*log.Logger).Fatal":     row(MutatesPointee, NoEffect),
	"(*log.Logger).Fatalf":    row(MutatesPointee, NoEffect, NoEffect),
	"(*log.Logger).Output":    row(MutatesPointee, NoEffect, NoEffect),
	"(*log.Logger).Prefix":    row(ReadsPointee),
	"(*log.Logger).Print":     row(MutatesPointee, NoEffect),
	"(*log.Logger).Printf":    row(MutatesPointee, NoEffect, NoEffect),
	"(*log.Logger).Println":   row(MutatesPointee, NoEffect),
	"(*log.Logger).SetFlags":  row(MutatesPointee, NoEffect),
	"(*log.Logger).SetOutput": row(MutatesPointee, NoEffect),
	"(*log.Logger).SetPrefix": row(MutatesPointee, NoEffect),
	"(*log.Logger).Writer":    row(ReadsPointee),
}

var accessMathBig = map[string]AccessSummary{
	"(*math/big.Int).Add":      row(MutatesPointee, ReadsPointee, ReadsPointee),
	"(*math/big.Int).Cmp":      row(ReadsPointee, ReadsPointee),
	"(*math/big.Int).Mul":      row(MutatesPointee, ReadsPointee, ReadsPointee),
	"(*math/big.Int).Set":      row(MutatesPointee, ReadsPointee),
	"(*math/big.Int).SetInt64": row(MutatesPointee, NoEffect),
	"(*math/big.Int).String":   row(ReadsPointee),
	"(*math/big.Int).Sub":      row(MutatesPointee, ReadsPointee, ReadsPointee),
}

var accessMathRand = map[string]AccessSummary{
	"(*math/rand.Rand).Float64": row(MutatesPointee),
	"(*math/rand.Rand).Int":     row(MutatesPointee),
	"(*math/rand.Rand).Int63":   row(MutatesPointee),
	"(*math/rand.Rand).Intn":    row(MutatesPointee, NoEffect),
	"(*math/rand.Rand).Seed":    row(MutatesPointee, NoEffect),
	"(*math/rand.Rand).Shuffle": row(MutatesPointee, NoEffect, NoEffect),
}

var accessOs = map[string]AccessSummary{
	"(*os.File).Close":       row(MutatesPointee),
	"(*os.File).Name":        row(ReadsPointee),
	"(*os.File).Read":        row(MutatesPointee, NoEffect),
	"(*os.File).Seek":        row(MutatesPointee, NoEffect, NoEffect),
	"(*os.File).Stat":        row(ReadsPointee),
	"(*os.File).Sync":        row(MutatesPointee),
	"(*os.File).Write":       row(MutatesPointee, NoEffect),
	"(*os.File).WriteString": row(MutatesPointee, NoEffect),
}

var accessRegexp = map[string]AccessSummary{
	"(*regexp.Regexp).FindAllString":    row(ReadsPointee, NoEffect, NoEffect),
	"(*regexp.Regexp).FindString":       row(ReadsPointee, NoEffect),
	"(*regexp.Regexp).MatchString":      row(ReadsPointee, NoEffect),
	"(*regexp.Regexp).ReplaceAllString": row(ReadsPointee, NoEffect, NoEffect),
	"(*regexp.Regexp).String":           row(ReadsPointee),
}

var accessTime = map[string]AccessSummary{
	"(*time.Ticker).Reset":         row(MutatesPointee, NoEffect),
	"(*time.Ticker).Stop":          row(MutatesPointee),
	"(*time.Time).UnmarshalBinary": row(MutatesPointee, NoEffect),
	"(*time.Time).UnmarshalJSON":   row(MutatesPointee, NoEffect),
	"(*time.Timer).Reset":          row(MutatesPointee, NoEffect),
	"(*time.Timer).Stop":           row(MutatesPointee),
}
