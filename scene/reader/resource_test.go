package reader

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLocalResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	res, err := openResource(thisFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if res.isRemote() {
		t.Fatal("expected local file not to be flagged as remote")
	}
}

func TestHttpResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	thisDir := filepath.Dir(thisFile)

	server := httptest.NewServer(http.FileServer(http.Dir(thisDir)))
	defer server.Close()

	fetchUrl := server.URL + "/" + filepath.Base(thisFile)
	res, err := openResource(fetchUrl, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if !res.isRemote() {
		t.Fatal("expected http resource to be flagged as remote")
	}

	fetchUrl = server.URL + "/file-not-found.foo"
	expError := fmt.Sprintf("resource: could not fetch '%s': status %d", fetchUrl, 404)
	_, err = openResource(fetchUrl, nil)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestFetchRemoteScene(t *testing.T) {
	objData := "mtllib scene.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl white\nf 1 2 3\n"
	mtlData := "newmtl white\nKd 0.9 0.9 0.9\n"

	var mtlHits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/scenes/box.obj":
			w.Write([]byte(objData))
		case "/scenes/scene.mtl":
			mtlHits++
			w.Write([]byte(mtlData))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	localScene, err := fetchSceneFile(server.URL + "/scenes/box.obj")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(filepath.Dir(localScene))

	if mtlHits != 1 {
		t.Fatalf("expected the referenced material library to be fetched once; got %d fetches", mtlHits)
	}

	data, err := os.ReadFile(localScene)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != objData {
		t.Fatalf("mirrored obj content mismatch:\n%s", string(data))
	}

	mtlPath := filepath.Join(filepath.Dir(localScene), "scene.mtl")
	data, err = os.ReadFile(mtlPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != mtlData {
		t.Fatalf("mirrored material library content mismatch:\n%s", string(data))
	}
}

func TestFetchLocalSceneIsPassthrough(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	path, err := fetchSceneFile(thisFile)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Clean(thisFile) {
		t.Fatalf("expected local path to pass through unchanged; got %s", path)
	}
}
