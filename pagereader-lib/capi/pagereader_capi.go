// ABOUTME: C API wrapper for the page reader library to enable FFI usage
// ABOUTME: Provides C-compatible functions that return JSON strings

package main

// #include <stdlib.h>
import "C"
import (
	"context"
	"encoding/json"
	"sync"
	"unsafe"

	pagereader "pagereader-api/pagereader-lib"
)

var (
	mu     sync.Mutex
	client *pagereader.Client
)

//export PagereaderInit
func PagereaderInit() C.int {
	return initClient()
}

//export PagereaderInitWithCache
func PagereaderInitWithCache(cacheType *C.char, cachePath *C.char) C.int {
	opt := pagereader.CacheOption{Type: pagereader.CacheTypeMemory}
	if C.GoString(cacheType) == "sqlite" {
		opt = pagereader.CacheOption{
			Type:     pagereader.CacheTypeSQLite,
			FilePath: C.GoString(cachePath),
		}
	}
	return initClient(pagereader.WithCacheOption(opt))
}

func initClient(opts ...pagereader.Option) C.int {
	mu.Lock()
	defer mu.Unlock()

	if client != nil {
		client.Close()
		client = nil
	}
	c, err := pagereader.NewClient(append([]pagereader.Option{pagereader.WithQuietMode()}, opts...)...)
	if err != nil {
		return -1
	}
	client = c
	return 0
}

//export PagereaderClose
func PagereaderClose() {
	mu.Lock()
	defer mu.Unlock()
	if client != nil {
		client.Close()
		client = nil
	}
}

//export PagereaderClassify
func PagereaderClassify(pageURL *C.char, html *C.char) *C.char {
	return call(func(c *pagereader.Client) (interface{}, error) {
		return c.Classify(context.Background(), C.GoString(pageURL), markup(html))
	})
}

//export PagereaderRead
func PagereaderRead(pageURL *C.char, html *C.char) *C.char {
	return call(func(c *pagereader.Client) (interface{}, error) {
		return c.Read(context.Background(), C.GoString(pageURL), markup(html))
	})
}

//export PagereaderSanitize
func PagereaderSanitize(fragment *C.char) *C.char {
	return call(func(c *pagereader.Client) (interface{}, error) {
		return map[string]string{"html": c.Sanitize(C.GoString(fragment))}, nil
	})
}

//export PagereaderFreeString
func PagereaderFreeString(str *C.char) {
	C.free(unsafe.Pointer(str))
}

// markup maps a NULL pointer to nil so the client fetches the page
func markup(html *C.char) []byte {
	if html == nil {
		return nil
	}
	return []byte(C.GoString(html))
}

func call(fn func(*pagereader.Client) (interface{}, error)) *C.char {
	mu.Lock()
	c := client
	mu.Unlock()
	if c == nil {
		return errorJSON("client not initialized")
	}

	result, err := fn(c)
	if err != nil {
		return errorJSON(err.Error())
	}
	data, err := json.Marshal(result)
	if err != nil {
		return errorJSON("failed to marshal response")
	}
	return C.CString(string(data))
}

func errorJSON(message string) *C.char {
	data, _ := json.Marshal(map[string]string{"error": message})
	return C.CString(string(data))
}

// Required for building as shared library
func main() {}
