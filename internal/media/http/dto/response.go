package dto

// UploadMediaResponse is returned after an upload.
type UploadMediaResponse struct {
	BlobID string `json:"blobId"`
}

// ListMediaResponse lists the blob ids an address holds records for.
type ListMediaResponse struct {
	Address string   `json:"address"`
	BlobIDs []string `json:"blobIds"`
}

// ShareMediaResponse acknowledges a share.
type ShareMediaResponse struct {
	Status string `json:"status"`
}

// MapBlobIDsToListResponse builds the list response. A nil slice is rendered as [].
func MapBlobIDsToListResponse(address string, blobIDs []string) ListMediaResponse {
	if blobIDs == nil {
		blobIDs = []string{}
	}
	return ListMediaResponse{
		Address: address,
		BlobIDs: blobIDs,
	}
}
