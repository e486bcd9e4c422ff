package cloud

import "testing"

func TestParseS3URL(t *testing.T) {
	bucket, key, err := ParseS3URL("s3://op-data/2023/payments.jsonl.gz")
	if err != nil {
		t.Fatalf("ParseS3URL: %v", err)
	}
	if bucket != "op-data" || key != "2023/payments.jsonl.gz" {
		t.Errorf("got %q %q", bucket, key)
	}
}

func TestParseS3URL_Invalid(t *testing.T) {
	for _, url := range []string{"https://op-data/x", "s3://op-data", "s3:///key", "s3://op-data/"} {
		if _, _, err := ParseS3URL(url); err == nil {
			t.Errorf("ParseS3URL(%q): expected error", url)
		}
	}
}
