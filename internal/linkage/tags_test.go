package linkage

import "testing"

func TestTags_AddSupersedes(t *testing.T) {
	tags := Tags{TagLastname}
	tags.Add(TagSpecialty)
	tags.Add(TagSubspecialty)
	tags.Add(TagFullSpecialty)

	if !tags.Has(TagFullSpecialty) {
		t.Fatal("FULLSPECIALTY missing")
	}
	if tags.Has(TagSpecialty) || tags.Has(TagSubspecialty) {
		t.Errorf("SPECIALTY/SUBSPECIALTY should be superseded, got %s", tags)
	}

	tags.Add(TagSpecialty)
	if tags.Has(TagSpecialty) {
		t.Error("adding a superseded tag should be a no-op")
	}
	if len(tags) != 2 {
		t.Errorf("expected 2 tags, got %d (%s)", len(tags), tags)
	}
}

func TestTags_CityStateDropsCityAndState(t *testing.T) {
	tags := Tags{TagLastname, TagCity, TagState}
	tags.Add(TagCityState)
	if tags.String() != "LASTNAME,CITYSTATE" {
		t.Errorf("got %s", tags)
	}
}

func TestTags_FirstnameChain(t *testing.T) {
	tags := Tags{TagLastname}
	tags.Add(TagFirstMiddleName)
	tags.Add(TagFirstnamePartial)
	if tags.Has(TagFirstMiddleName) {
		t.Error("FIRSTNAME_PARTIAL should remove FIRST_MIDDLE_NAME")
	}
	tags.Add(TagFirstname)
	if tags.String() != "LASTNAME,FIRSTNAME" {
		t.Errorf("got %s", tags)
	}
}

func TestTags_AddIdempotent(t *testing.T) {
	tags := Tags{TagLastname}
	tags.Add(TagCredential)
	tags.Add(TagCredential)
	if len(tags) != 2 {
		t.Errorf("expected 2 tags, got %s", tags)
	}
}

func TestParseFilterTag(t *testing.T) {
	tag, err := ParseFilterTag(" cityState ")
	if err != nil || tag != TagCityState {
		t.Fatalf("ParseFilterTag = %q, %v", tag, err)
	}
	if _, err := ParseFilterTag("ZIP"); err == nil {
		t.Error("expected error for unknown tag")
	}
}
