package httpserver

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/adapter/storage/minio"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/domain/apperr"
)

const multipartMemory = 8 << 20

func parseMultipart(w http.ResponseWriter, r *http.Request, maxFiles int) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxFiles)*(minio.MaxImageSize+(64<<10)))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return apperr.Validation(fmt.Sprintf("invalid multipart form: %v", err))
	}
	return nil
}

// readFormFile reads at most one byte past the image limit so oversize
// files are rejected by storage without buffering all of them.
func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("cannot read %s: %v", header.Filename, err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, minio.MaxImageSize+1))
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("cannot read %s: %v", header.Filename, err))
	}
	return data, nil
}
