package reader

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// A resource wraps a streamable local file or remote scene asset.
type resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns true if the resource is streamed over http/https.
func (r *resource) isRemote() bool {
	return r.url.Scheme != ""
}

// Base name of the resource without any path or query components.
func (r *resource) baseName() string {
	return filepath.Base(r.url.Path)
}

// Open a resource data stream. If relTo is specified and pathToResource does
// not define a scheme, the new resource path is resolved relative to relTo.
//
// http/https URLs are delegated to the net/http package. The caller must
// close the returned resource.
func openResource(pathToResource string, relTo *resource) (*resource, error) {
	url, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, err
	}

	// If this is a relative url, clone the parent url and adjust its path
	if url.Scheme == "" && relTo != nil {
		path := url.Path
		url, _ = url.Parse(relTo.url.String())
		url.Path = filepath.Dir(url.Path) + "/" + path
	}

	var reader io.ReadCloser
	switch url.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(url.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(url.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %s", url.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", url.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", url.Scheme)
	}

	return &resource{
		ReadCloser: reader,
		url:        url,
	}, nil
}

// Resolve a scene path into a local file the wavefront decoder can open.
// Local paths are returned as-is. Remote resources are mirrored into a
// temporary directory together with the material libraries the obj file
// references, so that relative mtllib lookups keep working.
func fetchSceneFile(sceneFile string) (string, error) {
	res, err := openResource(sceneFile, nil)
	if err != nil {
		return "", err
	}
	defer res.Close()

	if !res.isRemote() {
		return filepath.Clean(res.url.Path), nil
	}

	tmpDir, err := os.MkdirTemp("", "scene-mirror")
	if err != nil {
		return "", err
	}

	localScene := filepath.Join(tmpDir, res.baseName())
	matLibs, err := mirrorObj(res, localScene)
	if err != nil {
		return "", err
	}

	for _, lib := range matLibs {
		libRes, err := openResource(lib, res)
		if err != nil {
			return "", fmt.Errorf("resource: could not fetch material library: %s", err)
		}
		err = mirrorStream(libRes, filepath.Join(tmpDir, libRes.baseName()))
		libRes.Close()
		if err != nil {
			return "", err
		}
	}

	return localScene, nil
}

// Copy an obj stream to a local file, collecting the names of the material
// libraries it references.
func mirrorObj(res *resource, dst string) ([]string, error) {
	f, err := os.Create(dst)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var matLibs []string
	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == "mtllib" {
			matLibs = append(matLibs, fields[1])
		}
		if _, err = fmt.Fprintln(f, line); err != nil {
			return nil, err
		}
	}

	return matLibs, scanner.Err()
}

func mirrorStream(src io.Reader, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, src)
	return err
}
