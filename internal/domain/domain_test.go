package domain

import (
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginatedResponse_PageOverflow(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		requested int
		want      int
		overflow  bool
	}{
		{"beyond last page", 3, 5, 3, true},
		{"last page", 3, 3, 0, false},
		{"empty list", 0, 2, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PaginatedResponse[int]{TotalPages: tt.total}
			got, ok := p.PageOverflow(tt.requested)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.overflow, ok)
		})
	}
}

func TestPaginatedResponse_CaseInsensitiveDecode(t *testing.T) {
	var page PaginatedResponse[GroupListItemDetailedGetResponse]
	body := `{"Items":[{"Id":1,"Name":"P101","StudentsCount":12}],"TotalPages":2,"CurrentPage":1,"PageSize":4}`

	require.NoError(t, json.Unmarshal([]byte(body), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "P101", page.Items[0].Name)
	assert.Equal(t, 12, page.Items[0].StudentsCount)
	assert.True(t, page.HasNext())
	assert.False(t, page.HasPrevious())
	assert.Equal(t, []int{1, 2}, page.Pages())
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var s StudentGetResponse
	require.NoError(t, json.Unmarshal([]byte(`{"birthDate":"2001-03-04T00:00:00"}`), &s))
	assert.Equal(t, "2001-03-04", s.BirthDate.InputValue())

	require.NoError(t, json.Unmarshal([]byte(`{"birthDate":null}`), &s))
	assert.True(t, s.BirthDate.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"birthDate":"04/03/2001"}`), &s))
}

func TestStudentCreateRequest_FormFields(t *testing.T) {
	req := &StudentCreateRequest{
		FullName:  "Ann Lee",
		GroupID:   7,
		Point:     88.5,
		BirthDate: time.Date(2001, time.March, 4, 0, 0, 0, 0, time.UTC),
	}

	fields := req.FormFields()
	require.Len(t, fields, 4)
	assert.Equal(t, TextField("GroupId", "7"), fields[1])
	assert.Equal(t, TextField("Point", "88.5"), fields[2])
	assert.Equal(t, "Sunday, March 4, 2001", fields[3].Value)

	req.File = &FileUpload{
		Filename: "photo.png",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("png")), nil
		},
	}
	fields = req.FormFields()
	require.Len(t, fields, 5)
	assert.True(t, fields[4].IsFile())
	assert.Equal(t, "photo.png", fields[4].Filename)
}
